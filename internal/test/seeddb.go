// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/userrepo"
	"github.com/pocketbank/pocketbank/pkg/dbpkg"
	"github.com/pocketbank/pocketbank/pkg/passpkg"
	"github.com/pocketbank/pocketbank/pkg/randompkg"
)

// SeedUser creates random User inside a test transaction.
func SeedUser(t *testing.T, tx dbpkg.SQLInterface) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(32))
	if err != nil {
		t.Fatalf("passpkg.Hash(randompkg.String(32)) returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		Email:          randompkg.Email(),
		Name:           randompkg.Name(),
		PhoneNumber:    randompkg.PhoneNumber(),
		HashedPassword: hashedPassword,
	}

	userRepo := userrepo.NewRepoPGS(tx)

	user, err := userRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedAccount creates an account with the given type and balance inside a
// test transaction. Accounts are provisioned outside the transfer API, so
// the helper writes the row directly.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, userID, accountType string, balance decimal.Decimal, currency string) domain.Account {
	t.Helper()

	const query = `
		INSERT INTO accounts (user_id, type, name, number, balance, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, type, name, number, balance, currency, created_at, updated_at`

	name := randompkg.Name() + " " + accountType

	var account domain.Account

	row := tx.QueryRowContext(context.Background(), query,
		userID, accountType, name, randompkg.AccountNumber(), balance, currency)

	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Type,
		&account.Name,
		&account.Number,
		&account.Balance,
		&account.Currency,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seeding account for user %v returned error: %v", userID, err)
	}

	return account
}

// SeedAccountWith1000Balance creates a checking account with 1000 on balance
// inside a test transaction.
func SeedAccountWith1000Balance(t *testing.T, tx dbpkg.SQLInterface, userID, currency string) domain.Account {
	t.Helper()

	return SeedAccount(t, tx, userID, domain.AccountTypeChecking, decimal.NewFromInt(1000), currency)
}

// SeedTransaction writes one transaction row inside a test transaction.
func SeedTransaction(t *testing.T, tx dbpkg.SQLInterface, arg domain.Transaction) domain.Transaction {
	t.Helper()

	const query = `
		INSERT INTO transactions (user_id, from_account_id, to_account_id, type, amount, description, recipient_name, status, date)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, NULLIF($7, ''), $8, $9)
		RETURNING id, date`

	if arg.Date.IsZero() {
		arg.Date = time.Now().UTC()
	}

	row := tx.QueryRowContext(context.Background(), query,
		arg.UserID,
		arg.FromAccountID,
		arg.ToAccountID,
		arg.Type,
		arg.Amount,
		arg.Description,
		arg.RecipientName,
		arg.Status,
		arg.Date,
	)

	if err := row.Scan(&arg.ID, &arg.Date); err != nil {
		t.Fatalf("seeding transaction for user %v returned error: %v", arg.UserID, err)
	}

	return arg
}
