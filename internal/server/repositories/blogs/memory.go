package blogs

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory blog store. All mutations run
// under the lock, so the set-add and version-check semantics hold under
// concurrent callers exactly as they do in the real backends.
type MemoryRepository struct {
	mu    sync.RWMutex
	blogs map[string]*models.Blog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{blogs: make(map[string]*models.Blog)}
}

func cloneBlog(b *models.Blog) *models.Blog {
	c := *b
	c.Subscribers = append([]string(nil), b.Subscribers...)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blog.Subscribers = nil
	blog.Version = 1
	r.blogs[blog.ID] = cloneBlog(blog)
	return blog, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blogs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneBlog(b), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		result = append(result, cloneBlog(b))
	}
	return result, nil
}

func (r *MemoryRepository) UpdateFields(ctx context.Context, blog *models.Blog, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blogs[blog.ID]
	if !ok {
		return common.ErrVersionConflict
	}
	if b.Version != expectedVersion {
		return common.ErrVersionConflict
	}
	b.Title = blog.Title
	b.Category = blog.Category
	b.Description = blog.Description
	b.Version++
	return nil
}

func (r *MemoryRepository) AddSubscriber(ctx context.Context, blogID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blogs[blogID]
	if !ok {
		return common.ErrorNotFound
	}
	if b.OwnerID == userID || b.HasSubscriber(userID) {
		return nil
	}
	b.Subscribers = append(b.Subscribers, userID)
	return nil
}

func (r *MemoryRepository) RemoveSubscriber(ctx context.Context, blogID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blogs[blogID]
	if !ok {
		return common.ErrorNotFound
	}
	for i, s := range b.Subscribers {
		if s == userID {
			b.Subscribers = append(b.Subscribers[:i], b.Subscribers[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blogs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.blogs, id)
	return nil
}
