// Package historyrepo manages repository layer of the transaction history.
package historyrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/dbpkg"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
)

// RepoPGS facilitates transaction history repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns history RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const selectColumns = `
SELECT id, type, amount, description, date, status, from_account_id, to_account_id, recipient_name, user_id
FROM transactions
`

const countColumns = `
SELECT count(*)
FROM transactions
`

// Query returns one page of the user's transactions matching the filters,
// together with the total number of matches.
//
// Filters are combined with AND; the result is ordered most recent first
// with a stable id tie-break. All request values are bound as parameters.
func (r *RepoPGS) Query(ctx context.Context, arg domain.HistoryParams) ([]domain.Transaction, int64, error) {
	l := zerolog.Ctx(ctx)

	where, params := buildWhere(arg)

	var total int64

	row := r.db.QueryRowContext(ctx, countColumns+where, params...)
	if err := row.Scan(&total); err != nil {
		l.Error().Err(err).Send()
		return nil, 0, errorspkg.ErrInternal
	}

	offset := (arg.Page - 1) * arg.Limit
	page := fmt.Sprintf(" ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d", len(params)+1, len(params)+2)
	params = append(params, arg.Limit, offset)

	rows, err := r.db.QueryContext(ctx, selectColumns+where+page, params...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, 0, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var (
			t             domain.Transaction
			fromAccount   sql.NullString
			toAccount     sql.NullString
			recipientName sql.NullString
		)

		if err := rows.Scan(
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
		); err != nil {
			l.Error().Err(err).Send()
			return nil, 0, errorspkg.ErrInternal
		}

		t.FromAccountID = fromAccount.String
		t.ToAccountID = toAccount.String
		t.RecipientName = recipientName.String

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, 0, errorspkg.ErrInternal
	}

	return items, total, nil
}

func buildWhere(arg domain.HistoryParams) (string, []interface{}) {
	conds := []string{"user_id = $1"}
	params := []interface{}{arg.UserID}

	next := func() int { return len(params) + 1 }

	f := arg.Filters

	if f.Type != "" {
		conds = append(conds, fmt.Sprintf("type = $%d", next()))
		params = append(params, f.Type)
	}

	if f.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", next()))
		params = append(params, f.Status)
	}

	if f.Search != "" {
		conds = append(conds, fmt.Sprintf("(description ILIKE $%d OR recipient_name ILIKE $%d)", next(), next()))
		params = append(params, "%"+f.Search+"%")
	}

	if !f.StartDate.IsZero() {
		conds = append(conds, fmt.Sprintf("date >= $%d", next()))
		params = append(params, f.StartDate)
	}

	if !f.EndDate.IsZero() {
		conds = append(conds, fmt.Sprintf("date <= $%d", next()))
		params = append(params, f.EndDate)
	}

	return " WHERE " + strings.Join(conds, " AND "), params
}
