package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogs"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
)

// PostPatch carries the optional field edits of a post update request.
type PostPatch struct {
	Title   *string
	Content *string
}

// PostService enforces post access through the parent blog: a post's owner is
// the owner of the blog it belongs to.
type PostService struct {
	posts posts.Repository
	blogs blogs.Repository
}

func NewPostService(postRepo posts.Repository, blogRepo blogs.Repository) *PostService {
	return &PostService{posts: postRepo, blogs: blogRepo}
}

// Create adds a post to an existing blog. Any authenticated user may post;
// editing rights stay with the blog owner.
func (s *PostService) Create(ctx context.Context, identity *auth.Identity, blogID, title, content string) (*models.Post, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:      uuid.NewString(),
		BlogID:  blogID,
		Title:   title,
		Content: content,
	}
	return s.posts.Create(ctx, post)
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) ListByBlog(ctx context.Context, blogID string) ([]*models.Post, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return nil, err
	}
	return s.posts.ListByBlog(ctx, blogID)
}

// Update applies field edits if the caller owns the parent blog. A missing
// post or blog is reported before the ownership comparison; a non-owner gets
// ErrorForbidden.
func (s *PostService) Update(ctx context.Context, identity *auth.Identity, postID string, patch PostPatch) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByID(ctx, post.BlogID)
	if err != nil {
		return nil, err
	}
	if blog.OwnerID != identity.UserID {
		return nil, common.ErrorForbidden
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post if the caller owns the parent blog.
func (s *PostService) Delete(ctx context.Context, identity *auth.Identity, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	blog, err := s.blogs.GetByID(ctx, post.BlogID)
	if err != nil {
		return err
	}
	if blog.OwnerID != identity.UserID {
		return common.ErrorForbidden
	}

	return s.posts.Delete(ctx, postID)
}
