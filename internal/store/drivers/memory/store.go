// Package memory implements store.Store as a mutex-guarded in-process
// collection. It is the default driver: the workflow keeps no durability
// guarantees, but unlike a single-threaded runtime Go serves requests
// concurrently, so every access goes through the store mutex.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store"
)

type Store struct {
	mu sync.Mutex

	loans  []domain.Loan
	nextID int64

	users     map[string]domain.User
	userOrder []string
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		nextID: 1,
		users:  make(map[string]domain.User),
	}
}

func (s *Store) Loans() store.Loans { return (*loansRepo)(s) }
func (s *Store) Users() store.Users { return (*usersRepo)(s) }

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

type loansRepo Store

func (r *loansRepo) CreateLoan(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan.ID = r.nextID
	r.nextID++
	r.loans = append(r.loans, loan)
	return loan, nil
}

func (r *loansRepo) GetLoanByID(ctx context.Context, id int64) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.loans {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Loan{}, store.ErrNotFound
}

func (r *loansRepo) TransitionLoan(
	ctx context.Context,
	id int64,
	to domain.LoanStatus,
	actor string,
	at time.Time,
) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.loans {
		if l.ID != id {
			continue
		}
		if !domain.CanTransition(l.Status, to) {
			return domain.Loan{}, store.ErrInvalidTransition
		}

		l.Status = to
		switch to {
		case domain.StatusUnderReview:
			l.ReviewedBy = actor
			l.ReviewedAt = &at
		case domain.StatusApproved:
			l.ApprovedBy = actor
			l.ApprovedAt = &at
		}

		r.loans[i] = l
		return l, nil
	}
	return domain.Loan{}, store.ErrNotFound
}

func (r *loansRepo) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Loan, len(r.loans))
	copy(out, r.loans)
	return out, nil
}

type usersRepo Store

func (r *usersRepo) GetUserBySubject(ctx context.Context, subject string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[subject]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Subject]; ok {
		return store.ErrAlreadyExists
	}

	r.users[u.Subject] = cloneUser(u)
	r.userOrder = append(r.userOrder, u.Subject)
	return nil
}

func (r *usersRepo) SetCustomClaims(ctx context.Context, subject string, claims map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[subject]
	if !ok {
		return store.ErrNotFound
	}

	u.CustomClaims = maps.Clone(claims)
	r.users[subject] = u
	return nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.User, 0, len(r.userOrder))
	for _, subject := range r.userOrder {
		out = append(out, cloneUser(r.users[subject]))
	}
	return out, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.users) == 0, nil
}

// cloneUser copies the record so callers can't mutate shared claim maps.
func cloneUser(u domain.User) domain.User {
	u.CustomClaims = maps.Clone(u.CustomClaims)
	return u
}
