package identity

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
)

// Fake is an in-memory Gateway for tests. Tokens are opaque strings
// registered with AddToken; verification follows the same classification
// rules as a real provider (expiry, disabled account, unknown subject).
type Fake struct {
	mu     sync.Mutex
	users  map[string]domain.User
	order  []string
	tokens map[string]Claims
}

// NewFake returns an empty fake gateway.
func NewFake() *Fake {
	return &Fake{
		users:  make(map[string]domain.User),
		tokens: make(map[string]Claims),
	}
}

// AddUser registers a directory record.
func (f *Fake) AddUser(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[u.Subject]; !ok {
		f.order = append(f.order, u.Subject)
	}
	f.users[u.Subject] = u
}

// AddToken registers an opaque token that verifies to the given claims.
func (f *Fake) AddToken(token string, c Claims) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tokens[token] = c
}

func (f *Fake) VerifyToken(ctx context.Context, token string) (Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.tokens[token]
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	if !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt) {
		return Claims{}, ErrTokenExpired
	}

	u, ok := f.users[c.Subject]
	if !ok {
		return Claims{}, ErrUserNotFound
	}
	if u.Disabled {
		return Claims{}, ErrUserDisabled
	}

	return c, nil
}

func (f *Fake) GetUser(ctx context.Context, subject string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[subject]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	u.CustomClaims = maps.Clone(u.CustomClaims)
	return u, nil
}

func (f *Fake) SetCustomClaims(ctx context.Context, subject string, claims map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[subject]
	if !ok {
		return ErrUserNotFound
	}

	u.CustomClaims = maps.Clone(claims)
	f.users[subject] = u
	return nil
}

func (f *Fake) ListUsers(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.User, 0, len(f.order))
	for _, subject := range f.order {
		u := f.users[subject]
		u.CustomClaims = maps.Clone(u.CustomClaims)
		out = append(out, u)
	}
	return out, nil
}
