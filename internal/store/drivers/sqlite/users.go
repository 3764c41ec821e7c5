package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store"

	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `subject, email, email_verified, display_name, disabled,
	custom_claims, created_at, last_login_at`

func (r *usersRepo) GetUserBySubject(ctx context.Context, subject string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE subject = ?`, subject)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	claims, err := encodeClaims(u.CustomClaims)
	if err != nil {
		return err
	}

	var lastLogin any
	if u.LastLoginAt != nil {
		lastLogin = encodeTime(*u.LastLoginAt)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (subject, email, email_verified, display_name, disabled, custom_claims, created_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Subject, u.Email, u.EmailVerified, u.DisplayName, u.Disabled, claims, encodeTime(u.CreatedAt), lastLogin,
	)
	return mapConstraint(err)
}

func (r *usersRepo) SetCustomClaims(ctx context.Context, subject string, claims map[string]string) error {
	encoded, err := encodeClaims(claims)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE users SET custom_claims = ? WHERE subject = ?`, encoded, subject)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		claims    string
		createdAt string
		lastLogin sql.NullString
	)

	err := row.Scan(
		&u.Subject, &u.Email, &u.EmailVerified, &u.DisplayName, &u.Disabled,
		&claims, &createdAt, &lastLogin,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.CustomClaims = decodeClaims(claims)
	u.CreatedAt = decodeTime(createdAt)
	u.LastLoginAt = decodeTimePtr(lastLogin)
	return u, nil
}

func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var serr *sqlite3.Error
	if errors.As(err, &serr) && serr.Code() == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY {
		return store.ErrAlreadyExists
	}
	return err
}
