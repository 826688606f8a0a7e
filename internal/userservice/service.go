// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
	"github.com/pocketbank/pocketbank/pkg/passpkg"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	SetBiometric(ctx context.Context, id string, enabled bool) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user business logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// Create hashes the password and creates the user.
func (s *Service) Create(ctx context.Context, email, name, phoneNumber, password string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Email:          email,
		Name:           name,
		PhoneNumber:    phoneNumber,
		HashedPassword: hashedPassword,
	}

	return s.repo.Create(ctx, arg)
}

// CheckPassword returns the user if the email and password match.
//
// An unknown email and a wrong password both return ErrInvalidCredentials
// so that login failures do not reveal which accounts exist.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.User{}, domain.ErrInvalidCredentials
		}

		return domain.User{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	return s.repo.Get(ctx, id)
}

// SetBiometric updates the user's biometric login preference.
func (s *Service) SetBiometric(ctx context.Context, id string, enabled bool) (domain.User, error) {
	return s.repo.SetBiometric(ctx, id, enabled)
}
