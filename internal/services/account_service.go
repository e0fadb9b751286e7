package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"bankledger/internal/auth"
	"bankledger/internal/config"
	"bankledger/internal/db"
	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/store"
	"bankledger/internal/validator"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrSenderBlocked      = errors.New("sender account cannot transfer")
	ErrRecipientBlocked   = errors.New("recipient account cannot receive transfers")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrSelfTransfer       = errors.New("cannot transfer to own account")
	ErrUserNotFound       = errors.New("user not found")
	ErrNameTaken          = errors.New("name already registered")
	ErrInvalidStatus      = errors.New("unknown account status")
	ErrInvalidSession     = errors.New("invalid session")
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, first, last, passwordHash string, cash float64) (int64, error)
	CountByName(ctx context.Context, q store.Getter, first, last string) (int, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByIDTx(ctx context.Context, tx store.Getter, id int64) (models.User, error)
	GetByName(ctx context.Context, first, last string) (models.User, error)
	GetByNameTx(ctx context.Context, tx store.Getter, first, last string) (models.User, error)
	UpdateBalance(ctx context.Context, tx store.Execer, id int64, balance float64) error
	SetStatus(ctx context.Context, id int64, status models.Status) error
	List(ctx context.Context) ([]models.User, error)
	DeleteAndReindex(ctx context.Context, tx store.Execer, id int64) error
}

type JournalStore interface {
	Record(ctx context.Context, tx store.Execer, input store.JournalEntryInput) error
	ForUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	All(ctx context.Context) ([]models.Transaction, error)
}

// AccountService composes the user store and the journal into the operations
// the shell calls. Every mutation that touches cash runs inside one
// transaction together with its journal rows.
type AccountService struct {
	txRunner db.TxRunner
	users    UserStore
	journal  JournalStore
	cfg      config.Config
}

func NewAccountService(txRunner db.TxRunner, users UserStore, journal JournalStore, cfg config.Config) *AccountService {
	return &AccountService{
		txRunner: txRunner,
		users:    users,
		journal:  journal,
		cfg:      cfg,
	}
}

// Register creates an account. Registration is not a balance-affecting event:
// the initial cash is seeded directly and no journal row is written.
func (s *AccountService) Register(ctx context.Context, first, last, password string, initialCash float64) (int64, error) {
	if err := validator.ValidateName(first); err != nil {
		return 0, err
	}
	if err := validator.ValidateName(last); err != nil {
		return 0, err
	}
	if err := validator.ValidatePassword(password); err != nil {
		return 0, err
	}
	if initialCash < 0 {
		return 0, ErrInvalidAmount
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	var id int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		count, err := s.users.CountByName(ctx, tx, first, last)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrNameTaken
		}
		id, err = s.users.Create(ctx, tx, first, last, hash, initialCash)
		return err
	})
	if err != nil {
		return 0, err
	}
	slog.Info("user registered", "user_id", id)
	return id, nil
}

// Login fails closed: a deleted or banned account is reported as blocked even
// when the credentials match.
func (s *AccountService) Login(ctx context.Context, first, last, password string) (models.Session, error) {
	user, err := s.users.GetByName(ctx, first, last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.Session{}, ErrInvalidCredentials
	}
	if user.Status.BlocksAccess() {
		return models.Session{}, ErrAccountBlocked
	}
	token, err := auth.GenerateToken(s.cfg.SessionSecret, user.ID, false, s.cfg.SessionTTL)
	if err != nil {
		return models.Session{}, fmt.Errorf("issue session token: %w", err)
	}
	slog.Info("login", "user_id", user.ID)
	return models.Session{UserID: user.ID, Token: token}, nil
}

// AdminLogin gates the administrative menu behind the configured password.
func (s *AccountService) AdminLogin(password string) (models.Session, error) {
	if password == "" || password != s.cfg.AdminPassword {
		return models.Session{}, ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(s.cfg.SessionSecret, 0, true, s.cfg.SessionTTL)
	if err != nil {
		return models.Session{}, fmt.Errorf("issue session token: %w", err)
	}
	slog.Info("admin login")
	return models.Session{Admin: true, Token: token}, nil
}

func (s *AccountService) sessionUser(session models.Session) (int64, error) {
	claims, err := auth.ParseToken(s.cfg.SessionSecret, session.Token)
	if err != nil {
		return 0, ErrInvalidSession
	}
	if claims.Admin || claims.UserID != session.UserID {
		return 0, ErrInvalidSession
	}
	return claims.UserID, nil
}

func (s *AccountService) Balance(ctx context.Context, session models.Session) (float64, error) {
	userID, err := s.sessionUser(session)
	if err != nil {
		return 0, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("load user: %w", err)
	}
	return user.Cash, nil
}

func (s *AccountService) Deposit(ctx context.Context, session models.Session, amount float64) error {
	userID, err := s.sessionUser(session)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetByIDTx(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		if err := s.users.UpdateBalance(ctx, tx, userID, money.Add(user.Cash, amount)); err != nil {
			return err
		}
		return s.journal.Record(ctx, tx, store.JournalEntryInput{
			UserID:      userID,
			Type:        models.TxDeposit,
			Amount:      amount,
			Description: "cash deposit",
		})
	})
	if err != nil {
		return err
	}
	slog.Info("deposit", "user_id", userID, "amount", money.Format(amount))
	return nil
}

// Transfer moves funds between two accounts. The checks run in a fixed order
// inside one transaction; on any failure no balance is written. A successful
// transfer debits and credits the same amount and appends exactly two journal
// rows, so the sum of the two balances is invariant.
func (s *AccountService) Transfer(ctx context.Context, session models.Session, recipientFirst, recipientLast string, amount float64) error {
	senderID, err := s.sessionUser(session)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		sender, err := s.users.GetByIDTx(ctx, tx, senderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		if sender.Cash < amount {
			return ErrInsufficientFunds
		}
		recipient, err := s.users.GetByNameTx(ctx, tx, recipientFirst, recipientLast)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRecipientNotFound
			}
			return err
		}
		if recipient.ID == sender.ID {
			return ErrSelfTransfer
		}
		if recipient.Status.BlocksAccess() {
			return ErrRecipientBlocked
		}
		if sender.Status.BlocksSending() {
			return ErrSenderBlocked
		}
		if err := s.users.UpdateBalance(ctx, tx, sender.ID, money.Sub(sender.Cash, amount)); err != nil {
			return err
		}
		if err := s.users.UpdateBalance(ctx, tx, recipient.ID, money.Add(recipient.Cash, amount)); err != nil {
			return err
		}
		if err := s.journal.Record(ctx, tx, store.JournalEntryInput{
			UserID:      sender.ID,
			Type:        models.TxTransferOut,
			Amount:      amount,
			Description: "transfer to " + recipient.FirstName + " " + recipient.LastName,
		}); err != nil {
			return err
		}
		return s.journal.Record(ctx, tx, store.JournalEntryInput{
			UserID:      recipient.ID,
			Type:        models.TxTransferIn,
			Amount:      amount,
			Description: "transfer from " + sender.FirstName + " " + sender.LastName,
		})
	})
	if err != nil {
		return err
	}
	slog.Info("transfer", "sender_id", senderID, "amount", money.Format(amount))
	return nil
}

// AdminAdjustBalance credits an account from the administrative menu. Only
// positive deltas are accepted; there is no audit type for an administrative
// withdrawal, so none is offered.
func (s *AccountService) AdminAdjustBalance(ctx context.Context, userID int64, delta float64) error {
	if delta <= 0 {
		return ErrInvalidAmount
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetByIDTx(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Status.BlocksAccess() {
			return ErrAccountBlocked
		}
		if err := s.users.UpdateBalance(ctx, tx, userID, money.Add(user.Cash, delta)); err != nil {
			return err
		}
		return s.journal.Record(ctx, tx, store.JournalEntryInput{
			UserID:      userID,
			Type:        models.TxAdminIncrease,
			Amount:      delta,
			Description: "administrative balance increase",
		})
	})
	if err != nil {
		return err
	}
	slog.Info("admin balance adjust", "user_id", userID, "delta", money.Format(delta))
	return nil
}

// SetStatus overwrites the account flag unconditionally.
func (s *AccountService) SetStatus(ctx context.Context, userID int64, status models.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.users.SetStatus(ctx, userID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set status: %w", err)
	}
	slog.Info("status set", "user_id", userID, "status", string(status))
	return nil
}

// DeleteUser removes the account and renumbers the surviving ids in one
// transaction. Journal rows are kept: the audit trail outlives the account.
func (s *AccountService) DeleteUser(ctx context.Context, userID int64) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.DeleteAndReindex(ctx, tx, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", userID)
	return nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	views := make([]models.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, user.View())
	}
	return views, nil
}

// ListTransactions returns one account's history (most recent first) or, for
// userID 0, the whole journal in insertion order.
func (s *AccountService) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	if userID == 0 {
		rows, err := s.journal.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("list journal: %w", err)
		}
		return rows, nil
	}
	rows, err := s.journal.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	return rows, nil
}
