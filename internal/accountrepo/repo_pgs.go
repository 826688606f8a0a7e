// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/dbpkg"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const getQuery = `
SELECT
	id, user_id, type, name, number, balance, currency, created_at, updated_at
FROM accounts
WHERE id = $1 AND user_id = $2
`

// Get returns the account with the given id if it is owned by the given user.
//
// The owner filter is part of the query so that another user's account is
// indistinguishable from a missing one.
func (r *RepoPGS) Get(ctx context.Context, id, userID string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id, userID)

	var a domain.Account

	err := row.Scan(
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

const getBalanceQuery = `
SELECT balance, currency
FROM accounts
WHERE id = $1 AND user_id = $2
`

// GetBalance returns the authoritative balance of the given account.
func (r *RepoPGS) GetBalance(ctx context.Context, id, userID string) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getBalanceQuery, id, userID)

	var b domain.Balance

	err := row.Scan(&b.Amount, &b.Currency)
	if err != nil {
		if err == sql.ErrNoRows {
			return b, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const listQuery = `
SELECT
	id, user_id, type, name, number, balance, currency, created_at, updated_at
FROM accounts
WHERE user_id = $1
ORDER BY created_at DESC
`

// List returns all accounts owned by the given user.
func (r *RepoPGS) List(ctx context.Context, userID string) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Type,
			&a.Name,
			&a.Number,
			&a.Balance,
			&a.Currency,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, updated_at = now()
WHERE id = $2
RETURNING id, user_id, type, name, number, balance, currency, created_at, updated_at
`

// AddBalance changes the account's balance and returns the changed account.
//
// It must only be called inside the transfer engine's atomic section, after
// the row has been locked. The accounts_balance_check constraint backstops
// the in-transaction funds check.
func (r *RepoPGS) AddBalance(ctx context.Context, amount decimal.Decimal, id string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var a domain.Account

	err := row.Scan(
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

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientFunds
			}
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
