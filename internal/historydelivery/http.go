// Package historydelivery manages delivery layer of the transaction history.
package historydelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
	"github.com/pocketbank/pocketbank/pkg/tokenpkg"
	"github.com/pocketbank/pocketbank/pkg/web"
)

// Service provides service layer interface needed by history delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package historydelivery
type Service interface {
	Query(ctx context.Context, arg domain.HistoryParams) (domain.HistoryPage, error)
}

// Handler facilitates history delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns history handler.
func NewHandler(hs Service) *Handler {
	return &Handler{service: hs}
}

type request struct {
	Page      int32  `form:"page"`
	Limit     int32  `form:"limit"`
	Type      string `form:"type" binding:"omitempty,oneof=transfer payment deposit withdrawal"`
	Status    string `form:"status" binding:"omitempty,oneof=completed pending failed"`
	Search    string `form:"search"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

type response struct {
	Transactions []domain.Transaction `json:"transactions"`
	Pagination   pagination           `json:"pagination"`
}

type pagination struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// Query handles http request to read the paginated transaction history.
func (h *Handler) Query(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(web.CodeValidationError, err))
		return
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(web.CodeValidationError, err))
		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.HistoryParams{
		UserID: authPayload.UserID,
		Page:   req.Page,
		Limit:  req.Limit,
		Filters: domain.HistoryFilters{
			Type:      req.Type,
			Status:    req.Status,
			Search:    req.Search,
			StartDate: startDate,
			EndDate:   endDate,
		},
	}

	page, err := h.service.Query(ctx, arg)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{
		Transactions: page.Transactions,
		Pagination: pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", value)
}
