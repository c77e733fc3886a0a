package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogs"
)

func ptr(s string) *string { return &s }

func newBlogFixture(t *testing.T) (*BlogService, *models.Blog) {
	t.Helper()

	s := NewBlogService(blogs.NewMemoryRepository())
	blog, err := s.Create(context.Background(), &auth.Identity{UserID: "owner"},
		"Go Notes", "tech", "notes on Go")
	require.NoError(t, err)
	return s, blog
}

func TestBlogServiceCreate(t *testing.T) {
	s, blog := newBlogFixture(t)

	assert.NotEmpty(t, blog.ID)
	assert.Equal(t, "owner", blog.OwnerID)
	assert.Empty(t, blog.Subscribers)

	other, err := s.Create(context.Background(), &auth.Identity{UserID: "owner"},
		"Go Notes", "tech", "same title again")
	require.NoError(t, err)
	assert.NotEqual(t, blog.ID, other.ID)
}

func TestBlogServiceUpdate_OwnerEdits(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)

	updated, outcome, err := s.Update(ctx, &auth.Identity{UserID: "owner"}, blog.ID,
		BlogPatch{Title: ptr("Go Notes v2")})

	require.NoError(t, err)
	assert.Equal(t, OutcomeEdited, outcome)
	assert.Equal(t, "Go Notes v2", updated.Title)
	// untouched fields survive a partial patch
	assert.Equal(t, "tech", updated.Category)
	assert.Equal(t, "notes on Go", updated.Description)
	assert.Empty(t, updated.Subscribers)
}

func TestBlogServiceUpdate_NonOwnerSubscribes(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)

	// the body is ignored for non-owners
	updated, outcome, err := s.Update(ctx, &auth.Identity{UserID: "reader"}, blog.ID,
		BlogPatch{Title: ptr("hijacked")})

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubscribed, outcome)
	assert.Equal(t, "Go Notes", updated.Title)
	assert.Equal(t, []string{"reader"}, updated.Subscribers)
}

func TestBlogServiceUpdate_RepeatSubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)
	reader := &auth.Identity{UserID: "reader"}

	for i := 0; i < 3; i++ {
		updated, outcome, err := s.Update(ctx, reader, blog.ID, BlogPatch{})
		require.NoError(t, err)
		assert.Equal(t, OutcomeSubscribed, outcome)
		assert.Equal(t, []string{"reader"}, updated.Subscribers)
	}
}

func TestBlogServiceUpdate_NotFoundBeforeOwnership(t *testing.T) {
	ctx := context.Background()
	s, _ := newBlogFixture(t)

	_, _, err := s.Update(ctx, &auth.Identity{UserID: "reader"}, "no-such-blog", BlogPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, _, err = s.Update(ctx, &auth.Identity{UserID: "owner"}, "no-such-blog", BlogPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBlogServiceUpdate_OwnerEditKeepsSubscribers(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)

	_, _, err := s.Update(ctx, &auth.Identity{UserID: "reader"}, blog.ID, BlogPatch{})
	require.NoError(t, err)

	updated, outcome, err := s.Update(ctx, &auth.Identity{UserID: "owner"}, blog.ID,
		BlogPatch{Description: ptr("edited")})

	require.NoError(t, err)
	assert.Equal(t, OutcomeEdited, outcome)
	assert.Equal(t, "edited", updated.Description)
	assert.Equal(t, []string{"reader"}, updated.Subscribers)
}

func TestBlogServiceSubscribeUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)
	reader := &auth.Identity{UserID: "reader"}

	subscribed, err := s.Subscribe(ctx, reader, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader"}, subscribed.Subscribers)

	// owner subscribing to their own blog is a no-op
	own, err := s.Subscribe(ctx, &auth.Identity{UserID: "owner"}, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader"}, own.Subscribers)

	unsubscribed, err := s.Unsubscribe(ctx, reader, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, unsubscribed.Subscribers)

	// unsubscribing when not subscribed is fine
	_, err = s.Unsubscribe(ctx, reader, blog.ID)
	require.NoError(t, err)

	_, err = s.Subscribe(ctx, reader, "no-such-blog")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBlogServiceDelete(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)

	err := s.Delete(ctx, &auth.Identity{UserID: "reader"}, blog.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	// the forbidden attempt must not remove the blog
	_, err = s.Get(ctx, blog.ID)
	require.NoError(t, err)

	err = s.Delete(ctx, &auth.Identity{UserID: "owner"}, blog.ID)
	require.NoError(t, err)

	_, err = s.Get(ctx, blog.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = s.Delete(ctx, &auth.Identity{UserID: "owner"}, blog.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

// Concurrent subscriptions by different users must all survive.
func TestBlogServiceUpdate_ConcurrentSubscribers(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)

	const readers = 20
	var wg sync.WaitGroup
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func(n int) {
			defer wg.Done()
			identity := &auth.Identity{UserID: fmt.Sprintf("reader-%02d", n)}
			_, _, err := s.Update(ctx, identity, blog.ID, BlogPatch{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	updated, err := s.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Subscribers, readers)
}

// An owner edit racing subscriber additions must not drop any of them.
func TestBlogServiceUpdate_EditRacingSubscribe(t *testing.T) {
	ctx := context.Background()
	s, blog := newBlogFixture(t)

	const readers = 10
	var wg sync.WaitGroup
	wg.Add(readers + 1)

	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			_, _, err := s.Update(ctx, &auth.Identity{UserID: "owner"}, blog.ID,
				BlogPatch{Title: ptr(fmt.Sprintf("rev %d", i))})
			if err != nil {
				// a concurrent edit may lose the version race, never the blog
				assert.ErrorIs(t, err, common.ErrVersionConflict)
			}
		}
	}()

	for i := 0; i < readers; i++ {
		go func(n int) {
			defer wg.Done()
			identity := &auth.Identity{UserID: fmt.Sprintf("reader-%02d", n)}
			_, _, err := s.Update(ctx, identity, blog.ID, BlogPatch{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	updated, err := s.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Subscribers, readers)
}
