//go:build integration

package accountrepo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pocketbank/pocketbank/internal/accountrepo"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/internal/test"
	"github.com/pocketbank/pocketbank/pkg/configpkg"
	"github.com/pocketbank/pocketbank/pkg/currencypkg"
	"github.com/pocketbank/pocketbank/pkg/dbpkg"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestGet(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	user := test.SeedUser(t, tx)
	account := test.SeedAccountWith1000Balance(t, tx, user.ID, currencypkg.USD)

	otherUser := test.SeedUser(t, tx)

	testCases := []struct {
		name    string
		id      string
		userID  string
		wantErr error
	}{
		{
			name:   "OK",
			id:     account.ID,
			userID: user.ID,
		},
		{
			name:    "NotFound",
			id:      uuid.NewString(),
			userID:  user.ID,
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "OwnedByAnotherUser",
			id:      account.ID,
			userID:  otherUser.ID,
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Get(ctx, tc.id, tc.userID)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, account.ID, got.ID)
			require.Equal(t, account.Number, got.Number)
			require.True(t, got.Balance.Equal(account.Balance))
		})
	}
}

func TestGetBalance(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	user := test.SeedUser(t, tx)
	account := test.SeedAccountWith1000Balance(t, tx, user.ID, currencypkg.EUR)

	balance, err := repo.GetBalance(ctx, account.ID, user.ID)
	require.NoError(t, err)
	require.True(t, balance.Amount.Equal(account.Balance))
	require.Equal(t, currencypkg.EUR, balance.Currency)

	_, err = repo.GetBalance(ctx, uuid.NewString(), user.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestList(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	user := test.SeedUser(t, tx)

	want := []domain.Account{
		test.SeedAccount(t, tx, user.ID, domain.AccountTypeChecking, decimal.NewFromInt(1000), currencypkg.USD),
		test.SeedAccount(t, tx, user.ID, domain.AccountTypeSavings, decimal.NewFromInt(5000), currencypkg.USD),
		test.SeedAccount(t, tx, user.ID, domain.AccountTypeCredit, decimal.NewFromInt(-250), currencypkg.USD),
	}

	otherUser := test.SeedUser(t, tx)
	test.SeedAccountWith1000Balance(t, tx, otherUser.ID, currencypkg.USD)

	got, err := repo.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for _, a := range got {
		require.Equal(t, user.ID, a.UserID)
	}
}

func TestAddBalance(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	user := test.SeedUser(t, tx)
	account := test.SeedAccountWith1000Balance(t, tx, user.ID, currencypkg.USD)

	got, err := repo.AddBalance(ctx, decimal.NewFromInt(-300), account.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(700)))

	// The check constraint backstops over-debits on non-credit accounts.
	_, err = repo.AddBalance(ctx, decimal.NewFromInt(-800), account.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
