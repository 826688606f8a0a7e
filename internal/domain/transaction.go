package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a zero, negative or over-precision transfer amount.
	ErrInvalidAmount = errors.New("invalid transaction amount")
	// ErrDuplicateTransfer indicates that a transfer with the same
	// idempotency key was already recorded.
	ErrDuplicateTransfer = errors.New("transfer with this idempotency key already exists")
)

// Transaction types.
const (
	TransactionTypeTransfer   = "transfer"
	TransactionTypePayment    = "payment"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
)

// Transaction statuses.
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusPending   = "pending"
	TransactionStatusFailed    = "failed"
)

// Transaction holds one immutable money movement record.
//
// Amount is signed: negative values are outflows from the account of record.
// FromAccountID and ToAccountID may be empty when the corresponding leg is
// off-ledger (external recipient).
type Transaction struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status"`
	FromAccountID string          `json:"fromAccount,omitempty"`
	ToAccountID   string          `json:"toAccount,omitempty"`
	RecipientName string          `json:"recipientName,omitempty"`
	UserID        string          `json:"-"`
}

// CreateTransferParams is the input data for the transfer transaction.
type CreateTransferParams struct {
	UserID         string
	FromAccountID  string
	ToAccountRef   string
	Amount         decimal.Decimal
	Description    string
	RecipientName  string
	IdempotencyKey string
}

// HistoryFilters narrows a transaction history query. All supplied
// predicates are combined with AND.
type HistoryFilters struct {
	Type      string
	Status    string
	Search    string
	StartDate time.Time
	EndDate   time.Time
}

// HistoryParams is the input data for a transaction history query.
type HistoryParams struct {
	UserID  string
	Page    int32
	Limit   int32
	Filters HistoryFilters
}

// HistoryPage is one page of the filtered transaction log.
type HistoryPage struct {
	Transactions []Transaction `json:"transactions"`
	Page         int32         `json:"page"`
	Limit        int32         `json:"limit"`
	Total        int64         `json:"total"`
	TotalPages   int64         `json:"totalPages"`
}
