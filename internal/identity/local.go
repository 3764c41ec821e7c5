package identity

import (
	"context"
	"errors"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store"
	"github.com/loandesk/loandesk/pkg/jwtx"
)

// Local is a Gateway backed by an in-process user directory and EdDSA
// token verification. It stands in for a hosted identity provider: tokens
// are verified cryptographically, then the directory is consulted so a
// disabled or deleted subject can't keep using an otherwise valid token.
type Local struct {
	Verifier jwtx.Verifier
	Users    store.Users
}

// NewLocal wires a Local gateway.
func NewLocal(verifier jwtx.Verifier, users store.Users) *Local {
	return &Local{Verifier: verifier, Users: users}
}

func (g *Local) VerifyToken(ctx context.Context, token string) (Claims, error) {
	claims, err := g.Verifier.Verify(token)
	if err != nil {
		return Claims{}, mapVerifyError(err)
	}

	u, err := g.Users.GetUserBySubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Claims{}, ErrUserNotFound
		}
		return Claims{}, err
	}
	if u.Disabled {
		return Claims{}, ErrUserDisabled
	}

	out := Claims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Role:          claims.Role,
	}
	if claims.AuthTime != nil {
		out.AuthTime = claims.AuthTime.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (g *Local) GetUser(ctx context.Context, subject string) (domain.User, error) {
	u, err := g.Users.GetUserBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func (g *Local) SetCustomClaims(ctx context.Context, subject string, claims map[string]string) error {
	if err := g.Users.SetCustomClaims(ctx, subject, claims); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (g *Local) ListUsers(ctx context.Context) ([]domain.User, error) {
	return g.Users.ListUsers(ctx)
}

func mapVerifyError(err error) error {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, jwtx.ErrMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwtx.ErrInvalidSig),
		errors.Is(err, jwtx.ErrAlgMismatch),
		errors.Is(err, jwtx.ErrIssuer),
		errors.Is(err, jwtx.ErrAudience),
		errors.Is(err, jwtx.ErrNotYetValid):
		return ErrTokenInvalid
	default:
		return err
	}
}
