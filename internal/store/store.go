// Package store defines the data access boundary for loan applications and
// the identity directory. Concrete drivers live under drivers/ (memory,
// sqlite).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrInvalidTransition reports a loan status change the lifecycle does
	// not permit (backward or same-state moves).
	ErrInvalidTransition = errors.New("store: invalid status transition")
)

// Store is the root data access interface. It exposes sub-repositories to
// keep concerns tidy and testable.
type Store interface {
	Loans() Loans
	Users() Users

	// ApplyMigrations brings the underlying schema up to date. A no-op for
	// drivers without a schema.
	ApplyMigrations() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Loans is the loan application repository. Listing preserves insertion
// order; identifiers are a monotonically increasing counter assigned on
// create.
type Loans interface {
	// CreateLoan inserts a new application and returns it with its
	// assigned ID.
	CreateLoan(ctx context.Context, loan domain.Loan) (domain.Loan, error)

	// GetLoanByID returns a loan by its identifier.
	GetLoanByID(ctx context.Context, id int64) (domain.Loan, error)

	// TransitionLoan atomically moves a loan to a new status, recording
	// the actor and timestamp. Returns ErrInvalidTransition when the move
	// is not a forward step in the lifecycle.
	TransitionLoan(ctx context.Context, id int64, to domain.LoanStatus, actor string, at time.Time) (domain.Loan, error)

	// ListLoans returns every application in insertion order.
	ListLoans(ctx context.Context) ([]domain.Loan, error)
}

// Users is the identity directory repository.
type Users interface {
	// GetUserBySubject returns a directory record by subject identifier.
	GetUserBySubject(ctx context.Context, subject string) (domain.User, error)

	// CreateUser inserts a new directory record.
	CreateUser(ctx context.Context, u domain.User) error

	// SetCustomClaims replaces the custom claims stored for a subject.
	SetCustomClaims(ctx context.Context, subject string, claims map[string]string) error

	// ListUsers returns every directory record in insertion order.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty reports whether the directory has no records.
	IsEmpty(ctx context.Context) (bool, error)
}
