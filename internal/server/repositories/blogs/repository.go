// Package blogs provides repositories for blog persistence, including the
// conditional-write primitives the ownership rules depend on.
package blogs

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository is the resource accessor contract for blogs.
//
// UpdateFields is a conditional write: it applies the field edits only if the
// stored version still equals expectedVersion, and returns
// common.ErrVersionConflict otherwise. AddSubscriber is an atomic, idempotent
// set-add that never admits the blog owner; concurrent additions by different
// users must both survive.
type Repository interface {
	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	List(ctx context.Context) ([]*models.Blog, error)
	UpdateFields(ctx context.Context, blog *models.Blog, expectedVersion int64) error
	AddSubscriber(ctx context.Context, blogID, userID string) error
	RemoveSubscriber(ctx context.Context, blogID, userID string) error
	Delete(ctx context.Context, id string) error
}
