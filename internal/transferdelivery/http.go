// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
	"github.com/pocketbank/pocketbank/pkg/tokenpkg"
	"github.com/pocketbank/pocketbank/pkg/web"
)

// IdempotencyKeyHeader carries the caller-supplied retry-safety token.
const IdempotencyKeyHeader = "Idempotency-Key"

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transaction, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type request struct {
	FromAccountID string          `json:"fromAccountId" binding:"required,uuid"`
	ToAccountID   string          `json:"toAccountId" binding:"required_without=ToPhoneRef"`
	ToPhoneRef    string          `json:"toPhoneRef" binding:"required_without=ToAccountID"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
	RecipientName string          `json:"recipientName"`
}

type transactionData struct {
	Transaction domain.Transaction `json:"transaction"`
}

// Create handles http request to transfer money between accounts.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	toRef := req.ToAccountID
	if toRef == "" {
		toRef = req.ToPhoneRef
	}

	arg := domain.CreateTransferParams{
		UserID:         authPayload.UserID,
		FromAccountID:  req.FromAccountID,
		ToAccountRef:   toRef,
		Amount:         req.Amount,
		Description:    req.Description,
		RecipientName:  req.RecipientName,
		IdempotencyKey: gctx.GetHeader(IdempotencyKeyHeader),
	}

	transaction, err := h.service.Transfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(web.CodeInvalidAmount, err))
		case domain.ErrInsufficientFunds:
			gctx.JSON(http.StatusBadRequest, web.Error(web.CodeInsufficientFunds, err))
		case domain.ErrCurrencyMismatch:
			gctx.JSON(http.StatusBadRequest, web.Error(web.CodeValidationError, err))
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(web.CodeAccountNotFound, err))
		case domain.ErrDuplicateTransfer:
			gctx.JSON(http.StatusConflict, web.Error(web.CodeDuplicateEntry, err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusCreated, transactionData{transaction})
}
