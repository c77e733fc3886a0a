package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogs"
)

// UpdateOutcome reports how an update request was carried out.
type UpdateOutcome int

const (
	// OutcomeEdited means the caller owned the blog and the field edits were applied.
	OutcomeEdited UpdateOutcome = iota
	// OutcomeSubscribed means the caller did not own the blog and was added
	// to its subscribers instead.
	OutcomeSubscribed
)

// BlogPatch carries the optional field edits of an update request. Nil fields
// were absent from the request and stay untouched.
type BlogPatch struct {
	Title       *string
	Category    *string
	Description *string
}

// BlogService enforces the ownership rules over blogs.
type BlogService struct {
	repo blogs.Repository
}

func NewBlogService(repo blogs.Repository) *BlogService {
	return &BlogService{repo: repo}
}

// Create stamps the authenticated caller as owner and assigns a fresh id.
func (s *BlogService) Create(ctx context.Context, identity *auth.Identity, title, category, description string) (*models.Blog, error) {
	blog := &models.Blog{
		ID:          uuid.NewString(),
		OwnerID:     identity.UserID,
		Title:       title,
		Category:    category,
		Description: description,
	}
	return s.repo.Create(ctx, blog)
}

// Get returns a blog in full. Reads carry no ownership check.
func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BlogService) List(ctx context.Context) ([]*models.Blog, error) {
	return s.repo.List(ctx)
}

// Update implements the dual-purpose update verb: the owner gets the field
// edits applied, anyone else is subscribed to the blog instead, whatever the
// request body said. Absence of the blog is reported before any ownership
// comparison.
func (s *BlogService) Update(ctx context.Context, identity *auth.Identity, blogID string, patch BlogPatch) (*models.Blog, UpdateOutcome, error) {
	blog, err := s.repo.GetByID(ctx, blogID)
	if err != nil {
		return nil, 0, err
	}

	if blog.OwnerID != identity.UserID {
		if err := s.repo.AddSubscriber(ctx, blogID, identity.UserID); err != nil {
			return nil, 0, err
		}
		updated, err := s.repo.GetByID(ctx, blogID)
		if err != nil {
			return nil, 0, err
		}
		return updated, OutcomeSubscribed, nil
	}

	if patch.Title != nil {
		blog.Title = *patch.Title
	}
	if patch.Category != nil {
		blog.Category = *patch.Category
	}
	if patch.Description != nil {
		blog.Description = *patch.Description
	}

	if err := s.repo.UpdateFields(ctx, blog, blog.Version); err != nil {
		return nil, 0, err
	}
	blog.Version++
	return blog, OutcomeEdited, nil
}

// Subscribe adds the caller to the blog's subscribers. Subscribing twice is a
// no-op; an owner subscribing to their own blog is a no-op as well.
func (s *BlogService) Subscribe(ctx context.Context, identity *auth.Identity, blogID string) (*models.Blog, error) {
	if err := s.repo.AddSubscriber(ctx, blogID, identity.UserID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, blogID)
}

// Unsubscribe removes the caller from the blog's subscribers.
func (s *BlogService) Unsubscribe(ctx context.Context, identity *auth.Identity, blogID string) (*models.Blog, error) {
	if err := s.repo.RemoveSubscriber(ctx, blogID, identity.UserID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, blogID)
}

// Delete removes a blog. Only the owner may delete; everyone else gets
// ErrorForbidden. Absence is reported before the ownership comparison.
func (s *BlogService) Delete(ctx context.Context, identity *auth.Identity, blogID string) error {
	blog, err := s.repo.GetByID(ctx, blogID)
	if err != nil {
		return err
	}
	if blog.OwnerID != identity.UserID {
		return common.ErrorForbidden
	}
	return s.repo.Delete(ctx, blogID)
}
