// Package historyservice manages business logic layer of the transaction history.
package historyservice

import (
	"context"

	"github.com/pocketbank/pocketbank/internal/domain"
)

// Paging bounds. Out-of-range values are clamped rather than rejected.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Repo provides data access layer interface needed by history service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package historyservice
type Repo interface {
	Query(ctx context.Context, arg domain.HistoryParams) ([]domain.Transaction, int64, error)
}

// Service facilitates history service layer logic.
type Service struct {
	repo Repo
}

// New returns history service struct to manage history business logic.
func New(hr Repo) *Service {
	return &Service{repo: hr}
}

// Query returns one page of the user's filtered transaction history.
func (s *Service) Query(ctx context.Context, arg domain.HistoryParams) (domain.HistoryPage, error) {
	arg.Page, arg.Limit = clamp(arg.Page, arg.Limit)

	items, total, err := s.repo.Query(ctx, arg)
	if err != nil {
		return domain.HistoryPage{}, err
	}

	limit := int64(arg.Limit)
	totalPages := (total + limit - 1) / limit

	return domain.HistoryPage{
		Transactions: items,
		Page:         arg.Page,
		Limit:        arg.Limit,
		Total:        total,
		TotalPages:   totalPages,
	}, nil
}

func clamp(page, limit int32) (int32, int32) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}
