// Package service holds the business logic between the HTTP handlers and
// the store / identity gateway.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store"
	"github.com/loandesk/loandesk/pkg/api"
)

type LoanService struct {
	Store store.Store
}

// Submit records a new application. New loans always start as submitted;
// callers cannot choose a status.
func (s *LoanService) Submit(ctx context.Context, applicantName string, amount float64, submittedBy string) (domain.Loan, error) {
	loan := domain.Loan{
		ApplicantName: applicantName,
		Amount:        amount,
		Status:        domain.StatusSubmitted,
		SubmittedBy:   submittedBy,
		CreatedAt:     time.Now().UTC(),
	}
	return s.Store.Loans().CreateLoan(ctx, loan)
}

// Review moves a loan to under_review, stamping the acting officer.
func (s *LoanService) Review(ctx context.Context, id int64, actor string) (domain.Loan, error) {
	return s.transition(ctx, id, domain.StatusUnderReview, actor)
}

// Approve moves a loan to approved. Approval straight from submitted is
// allowed; the review step may be skipped but never undone.
func (s *LoanService) Approve(ctx context.Context, id int64, actor string) (domain.Loan, error) {
	return s.transition(ctx, id, domain.StatusApproved, actor)
}

// Get fetches a single loan.
func (s *LoanService) Get(ctx context.Context, id int64) (domain.Loan, error) {
	loan, err := s.Store.Loans().GetLoanByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Loan{}, api.NotFound("Loan not found.")
		}
		return domain.Loan{}, err
	}
	return loan, nil
}

// List returns every loan in submission order.
func (s *LoanService) List(ctx context.Context) ([]domain.Loan, error) {
	return s.Store.Loans().ListLoans(ctx)
}

func (s *LoanService) transition(ctx context.Context, id int64, to domain.LoanStatus, actor string) (domain.Loan, error) {
	loan, err := s.Store.Loans().TransitionLoan(ctx, id, to, actor, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Loan{}, api.NotFound("Loan not found.")
		case errors.Is(err, store.ErrInvalidTransition):
			return domain.Loan{}, api.Conflict("Loan has already progressed past %s.", to)
		}
		return domain.Loan{}, err
	}
	return loan, nil
}
