// Package users provides repositories for user account persistence.
package users

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository is the resource accessor contract for user accounts.
//
// GetByUsername must resolve through an indexed lookup and match exactly one
// record; ambiguity (duplicate usernames in a store that cannot enforce
// uniqueness) is reported as common.ErrorNotFound, never as an arbitrary pick.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}
