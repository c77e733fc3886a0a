// Package services contains the application services sitting between the HTTP
// layer and the repositories. Ownership rules live here; handlers only
// translate errors to status codes.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/cryptox"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

type UserService struct {
	repo users.Repository
}

func NewUserService(repo users.Repository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new account. The raw secret is hashed with a fresh salt
// and discarded; only the hash is stored. Registration needs no identity.
func (s *UserService) Register(ctx context.Context, username, secret string) (*models.User, error) {
	if username == "" || secret == "" {
		return nil, common.ErrorValidation
	}

	salt := cryptox.RandomSalt()
	user := &models.User{
		ID:         uuid.NewString(),
		Username:   username,
		SecretHash: cryptox.HashSecret(secret, salt),
		Salt:       salt,
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// Update modifies the authenticated user's own account. Only non-nil fields
// are applied; a new secret is rehashed with a fresh salt.
func (s *UserService) Update(ctx context.Context, identity *auth.Identity, username, secret *string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	if username != nil {
		if *username == "" {
			return nil, common.ErrorValidation
		}
		user.Username = *username
	}
	if secret != nil {
		if *secret == "" {
			return nil, common.ErrorValidation
		}
		user.Salt = cryptox.RandomSalt()
		user.SecretHash = cryptox.HashSecret(*secret, user.Salt)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the authenticated user's own account.
func (s *UserService) Delete(ctx context.Context, identity *auth.Identity) error {
	return s.repo.Delete(ctx, identity.UserID)
}
