package store

import (
	"context"
	"errors"

	"bankledger/internal/models"
)

// ErrNonPositiveAmount rejects journal rows whose magnitude is not positive.
// Direction lives in the type column, never in the sign.
var ErrNonPositiveAmount = errors.New("journal amount must be positive")

// JournalStore appends to the transactions table. Rows are immutable: no
// operation updates or deletes them.
type JournalStore struct {
	db DB
}

func NewJournalStore(db DB) *JournalStore {
	return &JournalStore{db: db}
}

type JournalEntryInput struct {
	UserID      int64
	Type        models.TxType
	Amount      float64
	Description string
}

func (s *JournalStore) Record(ctx context.Context, tx Execer, input JournalEntryInput) error {
	if input.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, description)
		VALUES (?, ?, ?, ?)
	`, input.UserID, string(input.Type), input.Amount, input.Description)
	return err
}

// ForUser returns the account's history, most recent first. The timestamp has
// second resolution, so the insert id breaks ties.
func (s *JournalStore) ForUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, amount, timestamp, COALESCE(description, '') AS description
		FROM transactions
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *JournalStore) All(ctx context.Context) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, amount, timestamp, COALESCE(description, '') AS description
		FROM transactions
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
