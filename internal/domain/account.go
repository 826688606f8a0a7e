package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found
	// or is not owned by the requesting user.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientFunds indicates that the account balance does not cover the debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrCurrencyMismatch indicates that transfer accounts have different currencies.
	ErrCurrencyMismatch = errors.New("accounts currency mismatch")
)

// Account types. Credit accounts are liability accounts and may carry
// a negative balance; the others may not go negative through a transfer.
const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
	AccountTypeCredit   = "credit"
)

// Account holds balance data for one of a user's accounts.
type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CanDebit reports whether debiting amount would leave the account in a
// valid state. Credit accounts may go negative.
func (a Account) CanDebit(amount decimal.Decimal) bool {
	if a.Type == AccountTypeCredit {
		return true
	}

	return a.Balance.GreaterThanOrEqual(amount)
}

// Balance holds the authoritative balance of a single account.
type Balance struct {
	Amount   decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}
