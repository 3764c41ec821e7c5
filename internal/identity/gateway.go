// Package identity defines the boundary to the identity provider: the
// service that verifies bearer credentials and stores per-subject custom
// claims. Everything behind Gateway is an external collaborator; the rest
// of the service only ever sees claims, user records and the sentinel
// errors below.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
)

// Verification failure reasons. Callers classify these into HTTP error
// kinds; anything else coming out of VerifyToken is treated as an
// unspecified verification failure.
var (
	ErrTokenExpired   = errors.New("identity: token expired")
	ErrTokenMalformed = errors.New("identity: token malformed")
	ErrTokenInvalid   = errors.New("identity: token invalid")
	ErrUserDisabled   = errors.New("identity: user account disabled")
	ErrUserNotFound   = errors.New("identity: user not found")
)

// Claims are the verified facts about a credential's subject.
type Claims struct {
	Subject       string
	Email         string
	EmailVerified bool

	// Role is the raw role claim; empty when the subject never had a role
	// assigned. Consumers must fall back to the lowest-privilege role.
	Role string

	AuthTime  time.Time
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Gateway is the consumed capability of the identity provider.
type Gateway interface {
	// VerifyToken checks a bearer token and returns its claims. Fails with
	// one of the sentinel errors above, or an unspecified error.
	VerifyToken(ctx context.Context, token string) (Claims, error)

	// GetUser returns the directory record for a subject, or
	// ErrUserNotFound.
	GetUser(ctx context.Context, subject string) (domain.User, error)

	// SetCustomClaims replaces the custom claims stored for a subject, or
	// fails with ErrUserNotFound.
	SetCustomClaims(ctx context.Context, subject string, claims map[string]string) error

	// ListUsers returns every directory record.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
