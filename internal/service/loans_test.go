package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store/drivers/memory"
	"github.com/loandesk/loandesk/pkg/api"
)

func newLoanService() *LoanService {
	return &LoanService{Store: memory.NewStore()}
}

func TestLoanServiceSubmit(t *testing.T) {
	t.Parallel()

	svc := newLoanService()
	ctx := context.Background()

	first, err := svc.Submit(ctx, "Ada Lovelace", 1200.50, "subject-a")
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, domain.StatusSubmitted, first.Status)
	require.Equal(t, "subject-a", first.SubmittedBy)
	require.False(t, first.CreatedAt.IsZero())

	second, err := svc.Submit(ctx, "", 0, "subject-b")
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)
	require.Equal(t, domain.StatusSubmitted, second.Status)
}

func TestLoanServiceLifecycle(t *testing.T) {
	t.Parallel()

	svc := newLoanService()
	ctx := context.Background()

	loan, err := svc.Submit(ctx, "Grace Hopper", 5000, "applicant")
	require.NoError(t, err)

	t.Run("review records the officer", func(t *testing.T) {
		reviewed, err := svc.Review(ctx, loan.ID, "officer-1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusUnderReview, reviewed.Status)
		require.Equal(t, "officer-1", reviewed.ReviewedBy)
		require.NotNil(t, reviewed.ReviewedAt)
	})

	t.Run("re-review conflicts", func(t *testing.T) {
		_, err := svc.Review(ctx, loan.ID, "officer-2")
		requireAPIError(t, err, http.StatusConflict, api.CodeConflict)
	})

	t.Run("approve records the manager", func(t *testing.T) {
		approved, err := svc.Approve(ctx, loan.ID, "manager-1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusApproved, approved.Status)
		require.Equal(t, "manager-1", approved.ApprovedBy)
		require.NotNil(t, approved.ApprovedAt)
	})

	t.Run("review after approval conflicts", func(t *testing.T) {
		_, err := svc.Review(ctx, loan.ID, "officer-3")
		requireAPIError(t, err, http.StatusConflict, api.CodeConflict)
	})
}

func TestLoanServiceApproveFromSubmitted(t *testing.T) {
	t.Parallel()

	svc := newLoanService()
	ctx := context.Background()

	loan, err := svc.Submit(ctx, "Direct", 100, "applicant")
	require.NoError(t, err)

	// The review step may be skipped, never undone.
	approved, err := svc.Approve(ctx, loan.ID, "manager-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, approved.Status)
	require.Empty(t, approved.ReviewedBy)
}

func TestLoanServiceNotFound(t *testing.T) {
	t.Parallel()

	svc := newLoanService()
	ctx := context.Background()

	_, err := svc.Review(ctx, 42, "officer-1")
	requireAPIError(t, err, http.StatusNotFound, api.CodeNotFound)

	_, err = svc.Approve(ctx, 42, "manager-1")
	requireAPIError(t, err, http.StatusNotFound, api.CodeNotFound)

	_, err = svc.Get(ctx, 42)
	requireAPIError(t, err, http.StatusNotFound, api.CodeNotFound)
}

func TestLoanServiceListOrder(t *testing.T) {
	t.Parallel()

	svc := newLoanService()
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		_, err := svc.Submit(ctx, name, 10, "applicant")
		require.NoError(t, err)
	}

	loans, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 3)
	require.Equal(t, "one", loans[0].ApplicantName)
	require.Equal(t, "two", loans[1].ApplicantName)
	require.Equal(t, "three", loans[2].ApplicantName)
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
