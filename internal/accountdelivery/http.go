// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
	"github.com/pocketbank/pocketbank/pkg/tokenpkg"
	"github.com/pocketbank/pocketbank/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Get(ctx context.Context, id, userID string) (domain.Account, error)
	GetBalance(ctx context.Context, id, userID string) (domain.Balance, error)
	List(ctx context.Context, userID string) ([]domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type accountData struct {
	Account domain.Account `json:"account"`
}

// Get handles http request to get an account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account, err := h.service.Get(ctx, req.ID, authPayload.UserID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(web.CodeAccountNotFound, err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, accountData{account})
}

// GetBalance handles http request to read an account's authoritative balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	balance, err := h.service.GetBalance(ctx, req.ID, authPayload.UserID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(web.CodeAccountNotFound, err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, balance)
}

type accountsData struct {
	Accounts []domain.Account `json:"accounts"`
}

// List handles http request to list the user's accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	accounts, err := h.service.List(ctx, authPayload.UserID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, accountsData{accounts})
}
