package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store"
)

type loansRepo struct {
	db *sql.DB
}

const loanColumns = `id, applicant_name, amount, status, submitted_by, created_at,
	reviewed_by, reviewed_at, approved_by, approved_at`

func (r *loansRepo) CreateLoan(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO loans (applicant_name, amount, status, submitted_by, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		loan.ApplicantName, loan.Amount, string(loan.Status), loan.SubmittedBy, encodeTime(loan.CreatedAt),
	)
	if err != nil {
		return domain.Loan{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Loan{}, err
	}

	loan.ID = id
	return loan, nil
}

func (r *loansRepo) GetLoanByID(ctx context.Context, id int64) (domain.Loan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = ?`, id)
	loan, err := scanLoan(row)
	if err != nil {
		return domain.Loan{}, mapNotFound(err)
	}
	return loan, nil
}

// TransitionLoan performs the read-check-update inside a transaction so a
// concurrent transition can't slip a loan backward.
func (r *loansRepo) TransitionLoan(
	ctx context.Context,
	id int64,
	to domain.LoanStatus,
	actor string,
	at time.Time,
) (domain.Loan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Loan{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM loans WHERE id = ?`, id).Scan(&current); err != nil {
		return domain.Loan{}, mapNotFound(err)
	}

	if !domain.CanTransition(domain.LoanStatus(current), to) {
		return domain.Loan{}, store.ErrInvalidTransition
	}

	switch to {
	case domain.StatusUnderReview:
		_, err = tx.ExecContext(ctx,
			`UPDATE loans SET status = ?, reviewed_by = ?, reviewed_at = ? WHERE id = ?`,
			string(to), actor, encodeTime(at), id,
		)
	case domain.StatusApproved:
		_, err = tx.ExecContext(ctx,
			`UPDATE loans SET status = ?, approved_by = ?, approved_at = ? WHERE id = ?`,
			string(to), actor, encodeTime(at), id,
		)
	default:
		_, err = tx.ExecContext(ctx, `UPDATE loans SET status = ? WHERE id = ?`, string(to), id)
	}
	if err != nil {
		return domain.Loan{}, err
	}

	loan, err := scanLoan(tx.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = ?`, id))
	if err != nil {
		return domain.Loan{}, mapNotFound(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Loan{}, err
	}
	return loan, nil
}

func (r *loansRepo) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (domain.Loan, error) {
	var (
		loan       domain.Loan
		status     string
		createdAt  string
		reviewedBy sql.NullString
		reviewedAt sql.NullString
		approvedBy sql.NullString
		approvedAt sql.NullString
	)

	err := row.Scan(
		&loan.ID, &loan.ApplicantName, &loan.Amount, &status, &loan.SubmittedBy, &createdAt,
		&reviewedBy, &reviewedAt, &approvedBy, &approvedAt,
	)
	if err != nil {
		return domain.Loan{}, err
	}

	loan.Status = domain.LoanStatus(status)
	loan.CreatedAt = decodeTime(createdAt)
	loan.ReviewedBy = reviewedBy.String
	loan.ReviewedAt = decodeTimePtr(reviewedAt)
	loan.ApprovedBy = approvedBy.String
	loan.ApprovedAt = decodeTimePtr(approvedAt)
	return loan, nil
}
