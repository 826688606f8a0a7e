package userservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
	"github.com/pocketbank/pocketbank/pkg/passpkg"
	"github.com/pocketbank/pocketbank/pkg/randompkg"
)

func TestCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	email := randompkg.Email()
	password := randompkg.String(10)

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, arg domain.CreateUserParams) (domain.User, error) {
			// The service must never hand the plain password to the repo.
			require.NotEqual(t, password, arg.HashedPassword)
			require.NoError(t, passpkg.Check(password, arg.HashedPassword))

			return domain.User{ID: uuid.NewString(), Email: arg.Email}, nil
		})

	user, err := service.Create(context.Background(), email, "John", randompkg.PhoneNumber(), password)
	require.NoError(t, err)
	require.Equal(t, email, user.Email)
}

func TestCreateDuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Times(1).
		Return(domain.User{}, domain.ErrEmailAlreadyExists)

	_, err := service.Create(context.Background(), randompkg.Email(), "John", randompkg.PhoneNumber(), randompkg.String(10))
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCheckPassword(t *testing.T) {
	email := randompkg.Email()
	password := randompkg.String(10)

	hashedPassword, err := passpkg.Hash(password)
	require.NoError(t, err)

	user := domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
	}

	testCases := []struct {
		name       string
		password   string
		buildStubs func(repo *MockRepo)
		wantErr    error
	}{
		{
			name:     "OK",
			password: password,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByEmail(gomock.Any(), gomock.Eq(email)).
					Times(1).
					Return(user, nil)
			},
		},
		{
			name:     "WrongPassword",
			password: randompkg.String(10),
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByEmail(gomock.Any(), gomock.Eq(email)).
					Times(1).
					Return(user, nil)
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			// An unknown email must be indistinguishable from a wrong password.
			name:     "UnknownEmail",
			password: password,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByEmail(gomock.Any(), gomock.Eq(email)).
					Times(1).
					Return(domain.User{}, domain.ErrUserNotFound)
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:     "RepoError",
			password: password,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByEmail(gomock.Any(), gomock.Eq(email)).
					Times(1).
					Return(domain.User{}, errorspkg.ErrInternal)
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo)

			got, err := service.CheckPassword(context.Background(), email, tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, user.ID, got.ID)
		})
	}
}

func TestSetBiometric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	id := uuid.NewString()

	repo.EXPECT().
		SetBiometric(gomock.Any(), gomock.Eq(id), gomock.Eq(true)).
		Times(1).
		Return(domain.User{ID: id, BiometricEnabled: true}, nil)

	user, err := service.SetBiometric(context.Background(), id, true)
	require.NoError(t, err)
	require.True(t, user.BiometricEnabled)
}
