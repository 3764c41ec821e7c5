// Package sqlite implements store.Store on modernc.org/sqlite. It is the
// persistent option: same contract as the memory driver, with the schema
// managed by embedded golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/loandesk/loandesk/internal/store"
)

type Store struct {
	db *sql.DB
}

// NewStore opens (and creates if needed) the database at dsn. Callers
// should pass a file DSN with busy timeout and WAL enabled, or ":memory:"
// in tests.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Loans() store.Loans { return &loansRepo{db: s.db} }
func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// Timestamps are stored as RFC 3339 text so rows stay readable with the
// sqlite3 CLI.
const timeLayout = time.RFC3339Nano

func encodeTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func decodeTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodeTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := decodeTime(ns.String)
	return &t
}

func encodeClaims(claims map[string]string) (string, error) {
	if claims == nil {
		claims = map[string]string{}
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeClaims(raw string) map[string]string {
	claims := map[string]string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &claims)
	}
	return claims
}
