//go:build integration

package userrepo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/internal/test"
	"github.com/pocketbank/pocketbank/internal/userrepo"
	"github.com/pocketbank/pocketbank/pkg/configpkg"
	"github.com/pocketbank/pocketbank/pkg/dbpkg"
	"github.com/pocketbank/pocketbank/pkg/randompkg"
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

func TestCreate(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := userrepo.NewRepoPGS(tx)

	arg := domain.CreateUserParams{
		Email:          randompkg.Email(),
		Name:           randompkg.Name(),
		PhoneNumber:    randompkg.PhoneNumber(),
		HashedPassword: randompkg.String(32),
	}

	user, err := repo.Create(ctx, arg)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, arg.Email, user.Email)
	require.Equal(t, arg.Name, user.Name)
	require.Equal(t, arg.PhoneNumber, user.PhoneNumber)
	require.Equal(t, arg.HashedPassword, user.HashedPassword)
	require.False(t, user.BiometricEnabled)
	require.NotZero(t, user.CreatedAt)

	_, err = repo.Create(ctx, arg)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestGetByEmail(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := userrepo.NewRepoPGS(tx)

	want := test.SeedUser(t, tx)

	got, err := repo.GetByEmail(ctx, want.Email)
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.HashedPassword, got.HashedPassword)

	_, err = repo.GetByEmail(ctx, randompkg.Email())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGet(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := userrepo.NewRepoPGS(tx)

	want := test.SeedUser(t, tx)

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, want.Email, got.Email)

	_, err = repo.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSetBiometric(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := userrepo.NewRepoPGS(tx)

	user := test.SeedUser(t, tx)
	require.False(t, user.BiometricEnabled)

	got, err := repo.SetBiometric(ctx, user.ID, true)
	require.NoError(t, err)
	require.True(t, got.BiometricEnabled)

	got, err = repo.SetBiometric(ctx, user.ID, false)
	require.NoError(t, err)
	require.False(t, got.BiometricEnabled)

	_, err = repo.SetBiometric(ctx, uuid.NewString(), true)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
