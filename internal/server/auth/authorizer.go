package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

// Verdict is the outcome of an authorization decision: allow with an opaque
// user id, or deny. A deny carries no detail about which stage failed:
// callers must not be able to tell a malformed header from wrong credentials.
type Verdict struct {
	Allowed bool
	UserID  string
}

// Allow returns an allowing verdict carrying only the resolved user id.
func Allow(userID string) Verdict {
	return Verdict{Allowed: true, UserID: userID}
}

// Deny returns a denying verdict with no identity context.
func Deny() Verdict {
	return Verdict{}
}

// Authorizer runs the credential codec and the identity resolver and collapses
// every failure mode into Deny. It is side-effect-free apart from the resolver
// read.
type Authorizer struct {
	resolver *Resolver
	logger   logging.Logger
}

func NewAuthorizer(resolver *Resolver, logger logging.Logger) *Authorizer {
	return &Authorizer{resolver: resolver, logger: logger.With("module", "authorizer")}
}

// Authorize decides the verdict for an Authorization header value. Missing or
// malformed headers, unknown or ambiguous credentials and resolver failures
// all produce Deny; upstream store errors are logged but never surfaced.
func (a *Authorizer) Authorize(ctx context.Context, header string) Verdict {
	cred, err := DecodeBasicHeader(header)
	if err != nil {
		return Deny()
	}

	identity, err := a.resolver.Resolve(ctx, cred)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			a.logger.Error(ctx, "identity resolution failed", "error", err.Error())
		}
		return Deny()
	}

	return Allow(identity.UserID)
}
