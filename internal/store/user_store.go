package store

import (
	"context"
	"database/sql"

	"bankledger/internal/models"
)

// UserStore is the only component that touches the users table. UpdateBalance
// is the sole primitive mutating cash; every caller pairs it with a journal
// row inside the same transaction.
type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, first_name, last_name, password, cash, COALESCE(status, '') AS status`

func (s *UserStore) Create(ctx context.Context, tx Execer, first, last, passwordHash string, cash float64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, password, cash)
		VALUES (?, ?, ?, ?)
	`, first, last, passwordHash, cash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *UserStore) CountByName(ctx context.Context, q Getter, first, last string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM users
		WHERE first_name = ? AND last_name = ?
	`, first, last)
	return count, err
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	return getUser(ctx, s.db, id)
}

// GetByIDTx reads a row inside an open transaction, so balance checks and the
// writes that follow observe one consistent state.
func (s *UserStore) GetByIDTx(ctx context.Context, tx Getter, id int64) (models.User, error) {
	return getUser(ctx, tx, id)
}

func getUser(ctx context.Context, q Getter, id int64) (models.User, error) {
	var user models.User
	err := q.GetContext(ctx, &user, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`, id)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) GetByName(ctx context.Context, first, last string) (models.User, error) {
	return getUserByName(ctx, s.db, first, last)
}

func (s *UserStore) GetByNameTx(ctx context.Context, tx Getter, first, last string) (models.User, error) {
	return getUserByName(ctx, tx, first, last)
}

// Duplicate name pairs are rejected at registration, but rows written by
// older builds may still collide; the lowest id wins.
func getUserByName(ctx context.Context, q Getter, first, last string) (models.User, error) {
	var user models.User
	err := q.GetContext(ctx, &user, `
		SELECT `+userColumns+`
		FROM users
		WHERE first_name = ? AND last_name = ?
		ORDER BY id
		LIMIT 1
	`, first, last)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) UpdateBalance(ctx context.Context, tx Execer, id int64, balance float64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET cash = ?
		WHERE id = ?
	`, balance, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *UserStore) SetStatus(ctx context.Context, id int64, status models.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET status = ?
		WHERE id = ?
	`, string(status), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteAndReindex removes the row and rebuilds the table so ids run
// contiguously from 1, preserving the relative order of the survivors. The
// caller wraps it in a transaction; nothing here is visible half-done.
func (s *UserStore) DeleteAndReindex(ctx context.Context, tx Execer, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	statements := []string{
		`CREATE TABLE users_reindex (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			password TEXT NOT NULL,
			cash REAL NOT NULL DEFAULT 0,
			status TEXT
		)`,
		`INSERT INTO users_reindex (first_name, last_name, password, cash, status)
			SELECT first_name, last_name, password, cash, status FROM users ORDER BY id`,
		`DROP TABLE users`,
		`ALTER TABLE users_reindex RENAME TO users`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
