// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/accountdelivery"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/currencypkg"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transaction, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
	}
}

// validRequest fails fast before the atomic section is entered. The balance
// read here is advisory only; the engine re-reads it under the row lock.
func (s *Service) validRequest(ctx context.Context, arg domain.CreateTransferParams) error {
	l := zerolog.Ctx(ctx)

	if !arg.Amount.IsPositive() {
		l.Info().Str("amount", arg.Amount.String()).Msg("rejected non-positive transfer amount")
		return domain.ErrInvalidAmount
	}

	fromAccount, err := s.accountService.Get(ctx, arg.FromAccountID, arg.UserID)
	if err != nil {
		return err
	}

	if arg.Amount.Exponent() < -currencypkg.MinorUnits(fromAccount.Currency) {
		l.Info().Str("amount", arg.Amount.String()).Msg("rejected over-precision transfer amount")
		return domain.ErrInvalidAmount
	}

	if !fromAccount.CanDebit(arg.Amount) {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// Transfer checks if the transfer request is valid and then executes it.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transaction, error) {
	if err := s.validRequest(ctx, arg); err != nil {
		return domain.Transaction{}, err
	}

	return s.repo.Transfer(ctx, arg)
}
