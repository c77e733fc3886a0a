package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/cryptox"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

// Identity is the resolved, authenticated representation of a caller. It
// carries only the opaque user id and nothing derived from the credential.
type Identity struct {
	UserID string
}

// Resolver maps a decoded credential to an Identity.
//
// The lookup runs through the repository's indexed username access (the
// exactly-one contract lives there); the secret comparison happens here, in
// constant time against the stored salted hash, never in the store's query
// layer.
type Resolver struct {
	repo users.Repository
}

func NewResolver(repo users.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the Identity for cred, common.ErrorNotFound if no single
// user matches, and the underlying error for store failures.
func (r *Resolver) Resolve(ctx context.Context, cred *Credential) (*Identity, error) {
	user, err := r.repo.GetByUsername(ctx, cred.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	if !cryptox.VerifySecret(cred.Secret, user.Salt, user.SecretHash) {
		return nil, common.ErrorNotFound
	}

	return &Identity{UserID: user.ID}, nil
}
