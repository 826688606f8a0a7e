// Package transferrepo manages repository layer of transfers.
//
// Transfer is the only write path to account balances. It debits the source,
// credits an on-ledger destination, and records the transaction in a single
// database transaction guarded by row-level locks.
package transferrepo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/accountrepo"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	conn              *sql.DB
	strictDestination bool
}

// NewRepoPGS returns transfer RepoPGS.
//
// With strictDestination enabled, a same-bank destination id that does not
// resolve to an account row fails the transfer instead of being treated as
// an external recipient.
func NewRepoPGS(conn *sql.DB, strictDestination bool) *RepoPGS {
	return &RepoPGS{
		conn:              conn,
		strictDestination: strictDestination,
	}
}

const lockSourceQuery = `
SELECT id, user_id, type, name, number, balance, currency, created_at, updated_at
FROM accounts
WHERE id = $1 AND user_id = $2
FOR UPDATE
`

const lockDestinationQuery = `
SELECT id, user_id, type, name, number, balance, currency, created_at, updated_at
FROM accounts
WHERE id = $1
FOR UPDATE
`

const insertTransactionQuery = `
INSERT INTO transactions
    (type, amount, description, status, from_account_id, to_account_id, recipient_name, user_id, idempotency_key)
VALUES
    ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, NULLIF($7, ''), $8, NULLIF($9, ''))
RETURNING id, type, amount, description, date, status, from_account_id, to_account_id, recipient_name, user_id
`

const getByIdempotencyKeyQuery = `
SELECT id, type, amount, description, date, status, from_account_id, to_account_id, recipient_name, user_id
FROM transactions
WHERE idempotency_key = $1 AND user_id = $2
`

// Transfer moves money from the user's source account to the destination.
//
// All steps run inside a single database transaction:
//
//  1. If an idempotency key is supplied and a transaction already carries it,
//     the recorded transaction is returned without touching any balance.
//  2. The source row is locked with FOR UPDATE, filtered by id and owner.
//     When the destination is a known same-bank account both rows are locked
//     in ascending id order to avoid lock-order deadlocks.
//  3. The balance is re-read under the lock and checked against the amount.
//  4. The source is debited, an on-ledger destination credited, and one
//     completed transaction record inserted.
//
// Any failure rolls the whole set of mutations back.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var result domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	if arg.IdempotencyKey != "" {
		recorded, err := getByIdempotencyKey(ctx, tx, arg.IdempotencyKey, arg.UserID)
		switch err {
		case nil:
			return recorded, nil
		case sql.ErrNoRows:
			// First attempt with this key.
		default:
			l.Error().Err(err).Send()
			return result, errorspkg.ErrInternal
		}
	}

	sourceID := normalizeID(arg.FromAccountID)
	destID, sameBank := parseDestination(arg.ToAccountRef)

	// Lock rows in ascending id order. Both ids are in canonical form so
	// the order is the same for two concurrent opposite-direction transfers.
	var from, to domain.Account

	onLedger := false

	if sameBank && strings.Compare(destID, sourceID) < 0 {
		to, onLedger, err = r.lockDestination(ctx, tx, destID)
		if err != nil {
			return result, err
		}

		from, err = lockSource(ctx, tx, sourceID, arg.UserID)
		if err != nil {
			return result, err
		}
	} else {
		from, err = lockSource(ctx, tx, sourceID, arg.UserID)
		if err != nil {
			return result, err
		}

		if sameBank {
			to, onLedger, err = r.lockDestination(ctx, tx, destID)
			if err != nil {
				return result, err
			}
		}
	}

	// Balance is checked only under the lock; any earlier read is advisory.
	if !from.CanDebit(arg.Amount) {
		return result, domain.ErrInsufficientFunds
	}

	if onLedger && from.Currency != to.Currency {
		return result, domain.ErrCurrencyMismatch
	}

	accountRepo := accountrepo.NewRepoPGS(tx)

	if _, err = accountRepo.AddBalance(ctx, arg.Amount.Neg(), from.ID); err != nil {
		l.Error().Err(err).Send()
		return result, err
	}

	if onLedger {
		if _, err = accountRepo.AddBalance(ctx, arg.Amount, to.ID); err != nil {
			l.Error().Err(err).Send()
			return result, err
		}
	}

	toAccountID := ""
	if onLedger {
		toAccountID = to.ID
	}

	result, err = insertTransaction(ctx, tx, arg, toAccountID)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return result, nil
}

// parseDestination reports whether the destination reference is a syntactic
// account id. Anything else (phone number, external account number) is an
// off-ledger recipient.
func parseDestination(ref string) (string, bool) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return "", false
	}

	return id.String(), true
}

// normalizeID maps an account id to its canonical lowercase form so that
// lock ordering does not depend on the caller's uuid formatting.
func normalizeID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}

	return parsed.String()
}

func lockSource(ctx context.Context, tx *sql.Tx, id, userID string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	err := tx.QueryRowContext(ctx, lockSourceQuery, id, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.Type,
		&a.Name,
		&a.Number,
		&a.Balance,
		&a.Currency,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

func (r *RepoPGS) lockDestination(ctx context.Context, tx *sql.Tx, id string) (domain.Account, bool, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	err := tx.QueryRowContext(ctx, lockDestinationQuery, id).Scan(
		&a.ID,
		&a.UserID,
		&a.Type,
		&a.Name,
		&a.Number,
		&a.Balance,
		&a.Currency,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			if r.strictDestination {
				return a, false, domain.ErrAccountNotFound
			}

			// Unknown same-bank id is treated as an external recipient.
			return a, false, nil
		}

		l.Error().Err(err).Send()

		return a, false, errorspkg.ErrInternal
	}

	return a, true, nil
}

// insertTransaction records the debit leg. toAccountID is empty for
// off-ledger destinations; the recipient is then identified by name only.
func insertTransaction(ctx context.Context, tx *sql.Tx, arg domain.CreateTransferParams, toAccountID string) (domain.Transaction, error) {
	row := tx.QueryRowContext(ctx, insertTransactionQuery,
		domain.TransactionTypeTransfer,
		arg.Amount.Neg(),
		arg.Description,
		domain.TransactionStatusCompleted,
		arg.FromAccountID,
		toAccountID,
		arg.RecipientName,
		arg.UserID,
		arg.IdempotencyKey,
	)

	t, err := scanTransaction(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transactions_idempotency_key_key" {
				return t, domain.ErrDuplicateTransfer
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

func getByIdempotencyKey(ctx context.Context, tx *sql.Tx, key, userID string) (domain.Transaction, error) {
	row := tx.QueryRowContext(ctx, getByIdempotencyKeyQuery, key, userID)
	return scanTransaction(row)
}

func scanTransaction(row *sql.Row) (domain.Transaction, error) {
	var (
		t             domain.Transaction
		fromAccount   sql.NullString
		toAccount     sql.NullString
		recipientName sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&t.Date,
		&t.Status,
		&fromAccount,
		&toAccount,
		&recipientName,
		&t.UserID,
	)
	if err != nil {
		return t, err
	}

	t.FromAccountID = fromAccount.String
	t.ToAccountID = toAccount.String
	t.RecipientName = recipientName.String

	return t, nil
}
