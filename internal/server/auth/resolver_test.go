package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/cryptox"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

// fakeUserRepo serves GetByUsername from a canned response; the resolver
// never touches the other methods.
type fakeUserRepo struct {
	users.Repository
	user *models.User
	err  error
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func storedUser(username, secret string) *models.User {
	salt := cryptox.RandomSalt()
	return &models.User{
		ID:         "user-1",
		Username:   username,
		Salt:       salt,
		SecretHash: cryptox.HashSecret(secret, salt),
	}
}

func TestResolverResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credential yields identity", func(t *testing.T) {
		r := NewResolver(&fakeUserRepo{user: storedUser("john", "s3cret")})

		identity, err := r.Resolve(ctx, &Credential{Username: "john", Secret: "s3cret"})

		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.UserID)
	})

	t.Run("wrong secret is not found", func(t *testing.T) {
		r := NewResolver(&fakeUserRepo{user: storedUser("john", "s3cret")})

		identity, err := r.Resolve(ctx, &Credential{Username: "john", Secret: "wrong"})

		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.Nil(t, identity)
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		r := NewResolver(&fakeUserRepo{err: common.ErrorNotFound})

		identity, err := r.Resolve(ctx, &Credential{Username: "nobody", Secret: "s3cret"})

		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.Nil(t, identity)
	})

	t.Run("store failure passes through", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		r := NewResolver(&fakeUserRepo{err: storeErr})

		identity, err := r.Resolve(ctx, &Credential{Username: "john", Secret: "s3cret"})

		assert.ErrorIs(t, err, storeErr)
		assert.Nil(t, identity)
	})
}

func TestResolverResolve_MemoryRepo(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()

	u := storedUser("john", "s3cret")
	_, err := repo.Create(ctx, u)
	require.NoError(t, err)

	identity, err := NewResolver(repo).Resolve(ctx, &Credential{Username: "john", Secret: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)

	_, err = NewResolver(repo).Resolve(ctx, &Credential{Username: "john", Secret: "S3CRET"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
