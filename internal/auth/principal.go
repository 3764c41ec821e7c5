// Package auth carries the request-scoped identity (Principal) and the
// declarative access policies evaluated by the HTTP middleware.
package auth

import (
	"context"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/identity"
)

// Principal is the authenticated caller attached to a request context
// after token verification succeeds.
type Principal struct {
	Subject       string
	Email         string
	EmailVerified bool
	Role          domain.Role

	AuthTime  time.Time
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewPrincipal builds a Principal from verified claims. An absent or
// unrecognized role claim degrades to the lowest-privilege role.
func NewPrincipal(c identity.Claims) Principal {
	return Principal{
		Subject:       c.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Role:          domain.RoleOrDefault(c.Role),
		AuthTime:      c.AuthTime,
		IssuedAt:      c.IssuedAt,
		ExpiresAt:     c.ExpiresAt,
	}
}

type principalKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the principal set by the authentication
// middleware. ok is false on unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
