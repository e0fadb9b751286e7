package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"bankledger/internal/models"
	"bankledger/internal/money"
)

// Service is the only boundary the shell talks to. Presentation stays here;
// every rule lives behind this interface.
type Service interface {
	Register(ctx context.Context, first, last, password string, initialCash float64) (int64, error)
	Login(ctx context.Context, first, last, password string) (models.Session, error)
	AdminLogin(password string) (models.Session, error)
	Balance(ctx context.Context, session models.Session) (float64, error)
	Deposit(ctx context.Context, session models.Session, amount float64) error
	Transfer(ctx context.Context, session models.Session, recipientFirst, recipientLast string, amount float64) error
	AdminAdjustBalance(ctx context.Context, userID int64, delta float64) error
	SetStatus(ctx context.Context, userID int64, status models.Status) error
	DeleteUser(ctx context.Context, userID int64) error
	ListUsers(ctx context.Context) ([]models.UserView, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
}

type UI struct {
	svc Service
	in  *bufio.Reader
	out io.Writer
}

func NewUI(svc Service, in *bufio.Reader, out io.Writer) *UI {
	return &UI{svc: svc, in: in, out: out}
}

func (ui *UI) Run(ctx context.Context) {
	for {
		fmt.Fprintln(ui.out, "\n=== Bank ledger ===")
		fmt.Fprintln(ui.out, "1) Register")
		fmt.Fprintln(ui.out, "2) Log in")
		fmt.Fprintln(ui.out, "3) Admin mode")
		fmt.Fprintln(ui.out, "0) Exit")
		fmt.Fprint(ui.out, "> ")
		switch ui.readChoice() {
		case "1":
			ui.handleRegister(ctx)
		case "2":
			if session, ok := ui.handleLogin(ctx); ok {
				ui.userMenu(ctx, session)
			}
		case "3":
			if ui.handleAdminLogin() {
				ui.adminMenu(ctx)
			}
		default:
			return
		}
	}
}

func (ui *UI) handleRegister(ctx context.Context) {
	fmt.Fprintln(ui.out, "\n--- Registration ---")
	first := ui.prompt("First name: ")
	last := ui.prompt("Last name: ")
	password := ui.prompt("Password: ")
	cash, err := money.ParseAmount(ui.prompt("Initial deposit (0 for none): "))
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	id, err := ui.svc.Register(ctx, first, last, password, cash)
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintf(ui.out, "Account #%d created.\n", id)
}

func (ui *UI) handleLogin(ctx context.Context) (models.Session, bool) {
	fmt.Fprintln(ui.out, "\n--- Log in ---")
	first := ui.prompt("First name: ")
	last := ui.prompt("Last name: ")
	password := ui.prompt("Password: ")
	session, err := ui.svc.Login(ctx, first, last, password)
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return models.Session{}, false
	}
	fmt.Fprintf(ui.out, "Welcome, account #%d.\n", session.UserID)
	return session, true
}

func (ui *UI) handleAdminLogin() bool {
	if _, err := ui.svc.AdminLogin(ui.prompt("Admin password: ")); err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return false
	}
	return true
}

func (ui *UI) userMenu(ctx context.Context, session models.Session) {
	for {
		fmt.Fprintln(ui.out, "\n--- Account menu ---")
		fmt.Fprintln(ui.out, "1) Balance")
		fmt.Fprintln(ui.out, "2) Deposit")
		fmt.Fprintln(ui.out, "3) Transfer")
		fmt.Fprintln(ui.out, "4) History")
		fmt.Fprintln(ui.out, "0) Log out")
		fmt.Fprint(ui.out, "> ")
		switch ui.readChoice() {
		case "1":
			balance, err := ui.svc.Balance(ctx, session)
			if err != nil {
				fmt.Fprintln(ui.out, "Error:", err)
				continue
			}
			fmt.Fprintf(ui.out, "Balance: %s\n", money.Format(balance))
		case "2":
			ui.handleDeposit(ctx, session)
		case "3":
			ui.handleTransfer(ctx, session)
		case "4":
			ui.printHistory(ctx, session.UserID)
		default:
			return
		}
	}
}

func (ui *UI) handleDeposit(ctx context.Context, session models.Session) {
	amount, err := money.ParseAmount(ui.prompt("Amount: "))
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	if err := ui.svc.Deposit(ctx, session, amount); err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintln(ui.out, "Deposited.")
}

func (ui *UI) handleTransfer(ctx context.Context, session models.Session) {
	first := ui.prompt("Recipient first name: ")
	last := ui.prompt("Recipient last name: ")
	amount, err := money.ParseAmount(ui.prompt("Amount: "))
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	if err := ui.svc.Transfer(ctx, session, first, last, amount); err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintln(ui.out, "Transfer complete.")
}

func (ui *UI) adminMenu(ctx context.Context) {
	for {
		fmt.Fprintln(ui.out, "\n--- Admin menu ---")
		fmt.Fprintln(ui.out, "1) List users")
		fmt.Fprintln(ui.out, "2) Increase balance")
		fmt.Fprintln(ui.out, "3) Set account status")
		fmt.Fprintln(ui.out, "4) Transaction history")
		fmt.Fprintln(ui.out, "5) Delete user")
		fmt.Fprintln(ui.out, "0) Leave admin mode")
		fmt.Fprint(ui.out, "> ")
		switch ui.readChoice() {
		case "1":
			ui.printUsers(ctx)
		case "2":
			ui.handleAdjust(ctx)
		case "3":
			ui.handleSetStatus(ctx)
		case "4":
			id, ok := ui.readID("User id (0 for all): ")
			if !ok {
				continue
			}
			ui.printHistory(ctx, id)
		case "5":
			ui.handleDelete(ctx)
		default:
			return
		}
	}
}

func (ui *UI) printUsers(ctx context.Context) {
	users, err := ui.svc.ListUsers(ctx)
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	if len(users) == 0 {
		fmt.Fprintln(ui.out, "No users.")
		return
	}
	for _, u := range users {
		status := string(u.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(ui.out, "#%d  %s %s  balance: %s  status: %s\n",
			u.ID, u.FirstName, u.LastName, money.Format(u.Cash), status)
	}
}

func (ui *UI) handleAdjust(ctx context.Context) {
	id, ok := ui.readID("User id: ")
	if !ok {
		return
	}
	delta, err := money.ParseAmount(ui.prompt("Amount to add: "))
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	if err := ui.svc.AdminAdjustBalance(ctx, id, delta); err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintln(ui.out, "Balance updated.")
}

func (ui *UI) handleSetStatus(ctx context.Context) {
	id, ok := ui.readID("User id: ")
	if !ok {
		return
	}
	status := models.Status(strings.TrimSpace(ui.prompt("Status (deleted/banned/credited, empty to clear): ")))
	if err := ui.svc.SetStatus(ctx, id, status); err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintln(ui.out, "Status updated.")
}

func (ui *UI) handleDelete(ctx context.Context) {
	id, ok := ui.readID("User id: ")
	if !ok {
		return
	}
	if strings.ToLower(ui.prompt("Delete and renumber remaining ids? (y/n): ")) != "y" {
		return
	}
	if err := ui.svc.DeleteUser(ctx, id); err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintln(ui.out, "User deleted.")
}

func (ui *UI) printHistory(ctx context.Context, userID int64) {
	rows, err := ui.svc.ListTransactions(ctx, userID)
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(ui.out, "No transactions.")
		return
	}
	for _, t := range rows {
		fmt.Fprintf(ui.out, "#%d  user %d  %-14s %10s  %s  %s\n",
			t.ID, t.UserID, t.Type, money.Format(t.Amount),
			t.Timestamp.Format(time.RFC3339), t.Description)
	}
}

func (ui *UI) prompt(label string) string {
	fmt.Fprint(ui.out, label)
	return ui.readLine()
}

func (ui *UI) readChoice() string {
	return strings.TrimSpace(ui.readLine())
}

func (ui *UI) readID(label string) (int64, bool) {
	raw := strings.TrimSpace(ui.prompt(label))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		fmt.Fprintln(ui.out, "Invalid id.")
		return 0, false
	}
	return id, true
}

func (ui *UI) readLine() string {
	line, _ := ui.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
