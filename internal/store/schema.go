package store

import (
	"context"
	"fmt"
	"strings"
)

const createUsersSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		password TEXT NOT NULL,
		cash REAL NOT NULL DEFAULT 0,
		status TEXT
	)
`

const createTransactionsSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		type TEXT NOT NULL,
		amount REAL NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		description TEXT
	)
`

// Schema owns table creation. Ensure is safe to call on every startup: a
// users table written by an older build predates the status column and is
// altered in place.
type Schema struct {
	db DB
}

func NewSchema(db DB) *Schema {
	return &Schema{db: db}
}

func (s *Schema) Ensure(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createUsersSQL); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createTransactionsSQL); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `ALTER TABLE users ADD COLUMN status TEXT`); err != nil && !isDuplicateColumn(err) {
		return fmt.Errorf("add status column: %w", err)
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
