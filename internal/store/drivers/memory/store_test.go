package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store"
)

func TestLoansRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := NewStore()
	loans := db.Loans()

	t.Run("create assigns sequential ids", func(t *testing.T) {
		first, err := loans.CreateLoan(ctx, domain.Loan{ApplicantName: "a", Status: domain.StatusSubmitted})
		require.NoError(t, err)
		require.Equal(t, int64(1), first.ID)

		second, err := loans.CreateLoan(ctx, domain.Loan{ApplicantName: "b", Status: domain.StatusSubmitted})
		require.NoError(t, err)
		require.Equal(t, int64(2), second.ID)
	})

	t.Run("get returns the stored loan", func(t *testing.T) {
		loan, err := loans.GetLoanByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, "a", loan.ApplicantName)

		_, err = loans.GetLoanByID(ctx, 99)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("transition stamps actor and time", func(t *testing.T) {
		at := time.Now().UTC()
		loan, err := loans.TransitionLoan(ctx, 1, domain.StatusUnderReview, "officer-1", at)
		require.NoError(t, err)
		require.Equal(t, domain.StatusUnderReview, loan.Status)
		require.Equal(t, "officer-1", loan.ReviewedBy)
		require.Equal(t, at, *loan.ReviewedAt)

		loan, err = loans.TransitionLoan(ctx, 1, domain.StatusApproved, "manager-1", at)
		require.NoError(t, err)
		require.Equal(t, "manager-1", loan.ApprovedBy)
		require.Equal(t, at, *loan.ApprovedAt)
	})

	t.Run("backward and repeated transitions fail", func(t *testing.T) {
		_, err := loans.TransitionLoan(ctx, 1, domain.StatusUnderReview, "officer-1", time.Now())
		require.ErrorIs(t, err, store.ErrInvalidTransition)

		_, err = loans.TransitionLoan(ctx, 1, domain.StatusApproved, "manager-1", time.Now())
		require.ErrorIs(t, err, store.ErrInvalidTransition)
	})

	t.Run("transition of unknown loan fails", func(t *testing.T) {
		_, err := loans.TransitionLoan(ctx, 99, domain.StatusApproved, "manager-1", time.Now())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		all, err := loans.ListLoans(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, int64(1), all[0].ID)
		require.Equal(t, int64(2), all[1].ID)
	})
}

func TestLoansRepoConcurrentCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := NewStore()
	loans := db.Loans()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			_, err := loans.CreateLoan(ctx, domain.Loan{Status: domain.StatusSubmitted})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := loans.ListLoans(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)

	seen := make(map[int64]bool, n)
	for _, l := range all {
		require.False(t, seen[l.ID], "duplicate id %d", l.ID)
		seen[l.ID] = true
	}
}

func TestUsersRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := NewStore()
	users := db.Users()

	t.Run("starts empty", func(t *testing.T) {
		empty, err := users.IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)
	})

	t.Run("create and get", func(t *testing.T) {
		err := users.CreateUser(ctx, domain.User{
			Subject:      "subject-one-1234567890",
			Email:        "one@example.com",
			CustomClaims: map[string]string{"role": "officer"},
		})
		require.NoError(t, err)

		u, err := users.GetUserBySubject(ctx, "subject-one-1234567890")
		require.NoError(t, err)
		require.Equal(t, "one@example.com", u.Email)
		require.Equal(t, domain.RoleOfficer, u.EffectiveRole())
	})

	t.Run("duplicate create fails", func(t *testing.T) {
		err := users.CreateUser(ctx, domain.User{Subject: "subject-one-1234567890"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("set claims replaces the map", func(t *testing.T) {
		err := users.SetCustomClaims(ctx, "subject-one-1234567890",
			map[string]string{"role": "manager"})
		require.NoError(t, err)

		u, err := users.GetUserBySubject(ctx, "subject-one-1234567890")
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, u.EffectiveRole())
	})

	t.Run("set claims on unknown subject fails", func(t *testing.T) {
		err := users.SetCustomClaims(ctx, "nobody-subject-12345678", nil)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		u, err := users.GetUserBySubject(ctx, "subject-one-1234567890")
		require.NoError(t, err)
		u.CustomClaims["role"] = "admin"

		again, err := users.GetUserBySubject(ctx, "subject-one-1234567890")
		require.NoError(t, err)
		require.Equal(t, "manager", again.CustomClaims["role"])
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		err := users.CreateUser(ctx, domain.User{Subject: "subject-two-1234567890"})
		require.NoError(t, err)

		all, err := users.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "subject-one-1234567890", all[0].Subject)
		require.Equal(t, "subject-two-1234567890", all[1].Subject)
	})
}
