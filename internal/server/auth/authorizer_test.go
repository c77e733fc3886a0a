package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

type noopLogger struct{}

func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (noopLogger) With(args ...any) logging.Logger                    { return noopLogger{} }

func TestAuthorizerAuthorize_Allow(t *testing.T) {
	r := NewResolver(&fakeUserRepo{user: storedUser("john", "s3cret")})
	a := NewAuthorizer(r, noopLogger{})

	verdict := a.Authorize(context.Background(), basicHeader("john", "s3cret"))

	assert.True(t, verdict.Allowed)
	assert.Equal(t, "user-1", verdict.UserID)
}

// Every failure mode must yield the same verdict: callers cannot distinguish
// a malformed header from wrong credentials or a store outage.
func TestAuthorizerAuthorize_AllFailuresCollapseToDeny(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		repoErr error
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Bearer abc"},
		{name: "invalid base64", header: "Basic %%%"},
		{name: "unknown user", header: basicHeader("nobody", "x"), repoErr: common.ErrorNotFound},
		{name: "store outage", header: basicHeader("john", "s3cret"), repoErr: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthorizer(NewResolver(&fakeUserRepo{err: tt.repoErr}), noopLogger{})

			verdict := a.Authorize(context.Background(), tt.header)

			assert.Equal(t, Deny(), verdict)
		})
	}
}

func TestAuthorizerAuthorize_WrongSecretDeny(t *testing.T) {
	a := NewAuthorizer(NewResolver(&fakeUserRepo{user: storedUser("john", "s3cret")}), noopLogger{})

	verdict := a.Authorize(context.Background(), basicHeader("john", "wrong"))

	require.False(t, verdict.Allowed)
	assert.Empty(t, verdict.UserID)
}
