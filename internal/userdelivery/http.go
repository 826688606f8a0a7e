// Package userdelivery manages delivery layer of users and auth.
package userdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/internal/tokenservice"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
	"github.com/pocketbank/pocketbank/pkg/tokenpkg"
	"github.com/pocketbank/pocketbank/pkg/web"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Create(ctx context.Context, email, name, phoneNumber, password string) (domain.User, error)
	CheckPassword(ctx context.Context, email, password string) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	SetBiometric(ctx context.Context, id string, enabled bool) (domain.User, error)
}

// TokenService mints and refreshes token pairs for authenticated users.
type TokenService interface {
	IssuePair(userID, email string) (tokenservice.TokenPair, error)
	Refresh(refreshToken string) (tokenservice.TokenPair, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service Service
	tokens  TokenService
}

// NewHandler returns user handler.
func NewHandler(us Service, ts TokenService) *Handler {
	return &Handler{
		service: us,
		tokens:  ts,
	}
}

type authResponse struct {
	User   domain.User            `json:"user"`
	Tokens tokenservice.TokenPair `json:"tokens"`
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required,min=2"`
	PhoneNumber string `json:"phoneNumber" binding:"required,min=10"`
	Password    string `json:"password" binding:"required,min=8"`
}

// Register handles http request to create a user.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req registerRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	user, err := h.service.Create(ctx, req.Email, req.Name, req.PhoneNumber, req.Password)
	if err != nil {
		if err == domain.ErrEmailAlreadyExists {
			gctx.JSON(http.StatusConflict, web.Error(web.CodeDuplicateEntry, err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	tokens, err := h.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles http request to authenticate a user.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	user, err := h.service.CheckPassword(ctx, req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			gctx.JSON(http.StatusUnauthorized, web.Error(web.CodeInvalidCredentials, err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	tokens, err := h.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, authResponse{User: user, Tokens: tokens})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh handles http request to renew the token pair.
func (h *Handler) Refresh(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req refreshRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	tokens, err := h.tokens.Refresh(req.RefreshToken)
	if err != nil {
		code := web.CodeUnauthorized
		if err == tokenpkg.ErrExpiredToken {
			code = web.CodeTokenExpired
		}

		gctx.JSON(http.StatusUnauthorized, web.Error(code, err))

		return
	}

	gctx.JSON(http.StatusOK, tokens)
}

type userData struct {
	User domain.User `json:"user"`
}

// Me handles http request to read the authenticated user.
func (h *Handler) Me(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	user, err := h.service.Get(ctx, authPayload.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			gctx.JSON(http.StatusUnauthorized, web.Error(web.CodeUnauthorized, err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, userData{user})
}

type biometricRequest struct {
	BiometricEnabled *bool `json:"biometricEnabled" binding:"required"`
}

// SetBiometric handles http request to toggle biometric login preference.
func (h *Handler) SetBiometric(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req biometricRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.ValidationError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	user, err := h.service.SetBiometric(ctx, authPayload.UserID, *req.BiometricEnabled)
	if err != nil {
		if err == domain.ErrUserNotFound {
			gctx.JSON(http.StatusUnauthorized, web.Error(web.CodeUnauthorized, err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(web.CodeTransactionFailed, errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, userData{user})
}
