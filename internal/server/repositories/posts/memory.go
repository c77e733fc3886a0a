package posts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory post store.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[string]*models.Post)}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = clonePost(post)
	return post, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clonePost(p), nil
}

func (r *MemoryRepository) ListByBlog(ctx context.Context, blogID string) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Post
	for _, p := range r.posts {
		if p.BlogID == blogID {
			result = append(result, clonePost(p))
		}
	}
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Title = post.Title
	stored.Content = post.Content
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}
