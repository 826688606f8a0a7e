// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/pocketbank/pocketbank/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Get(ctx context.Context, id, userID string) (domain.Account, error)
	GetBalance(ctx context.Context, id, userID string) (domain.Balance, error)
	List(ctx context.Context, userID string) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Get returns the user's account with the given id.
func (s *Service) Get(ctx context.Context, id, userID string) (domain.Account, error) {
	return s.repo.Get(ctx, id, userID)
}

// GetBalance returns the authoritative balance of the user's account.
func (s *Service) GetBalance(ctx context.Context, id, userID string) (domain.Balance, error) {
	return s.repo.GetBalance(ctx, id, userID)
}

// List returns all accounts owned by the given user.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.repo.List(ctx, userID)
}
