package models

import "time"

// Status is the account-level flag gating transfers and admin edits.
// The empty string means the account carries no flag.
type Status string

const (
	StatusNone     Status = ""
	StatusDeleted  Status = "deleted"
	StatusBanned   Status = "banned"
	StatusCredited Status = "credited"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusDeleted, StatusBanned, StatusCredited:
		return true
	}
	return false
}

// BlocksAccess reports whether the flag rejects logins, incoming transfers
// and admin balance edits.
func (s Status) BlocksAccess() bool {
	return s == StatusDeleted || s == StatusBanned
}

// BlocksSending reports whether the flag rejects outgoing transfers.
// A credited account is treated as carrying a debt: it may still receive
// deposits but cannot send.
func (s Status) BlocksSending() bool {
	return s == StatusDeleted || s == StatusCredited
}

type TxType string

const (
	TxDeposit       TxType = "deposit"
	TxTransferOut   TxType = "transfer_out"
	TxTransferIn    TxType = "transfer_in"
	TxAdminIncrease TxType = "admin_increase"
)

type User struct {
	ID           int64   `db:"id"`
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	PasswordHash string  `db:"password"`
	Cash         float64 `db:"cash"`
	Status       Status  `db:"status"`
}

// UserView is the projection handed to the shell. It carries no credentials.
type UserView struct {
	ID        int64
	FirstName string
	LastName  string
	Cash      float64
	Status    Status
}

func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Cash:      u.Cash,
		Status:    u.Status,
	}
}

// Transaction is an immutable journal row. Amount is always a positive
// magnitude; the direction is carried by Type.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Type        TxType    `db:"type"`
	Amount      float64   `db:"amount"`
	Timestamp   time.Time `db:"timestamp"`
	Description string    `db:"description"`
}

// Session is the authenticated identity of the current actor, scoped to one
// login. The token is signed; mutating operations verify it before acting.
type Session struct {
	UserID int64
	Admin  bool
	Token  string
}
