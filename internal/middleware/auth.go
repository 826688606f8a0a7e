// Package middleware provides gin middleware for authentication and request logging.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketbank/pocketbank/pkg/tokenpkg"
	"github.com/pocketbank/pocketbank/pkg/web"
)

// Authorization header constants.
const (
	AuthorizationHeaderKey  = "authorization"
	AuthorizationTypeBearer = "bearer"
	AuthPayloadKey          = "authorization_payload"
)

// AddAuthorization sets a valid bearer token on the request. Test helper.
func AddAuthorization(
	t *testing.T,
	request *http.Request,
	tokenMaker tokenpkg.Maker,
	authorizationType string,
	userID string,
	email string,
	duration time.Duration,
) {
	t.Helper()

	token, _, err := tokenMaker.CreateToken(userID, email, duration)
	if err != nil {
		t.Fatalf("tokenMaker.CreateToken(%v, %v, %v) returned error: %v", userID, email, duration, err)
	}

	request.Header.Set(AuthorizationHeaderKey, fmt.Sprintf("%s %s", authorizationType, token))
}

// AuthMiddleware verifies the bearer access token and stores its payload in
// the gin context under AuthPayloadKey.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorizationHeader := ctx.GetHeader(AuthorizationHeaderKey)
		if len(authorizationHeader) == 0 {
			err := errors.New("authorization header is not provided")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(web.CodeUnauthorized, err))

			return
		}

		fields := strings.Fields(authorizationHeader)
		if len(fields) < 2 {
			err := errors.New("invalid authorization header format")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(web.CodeUnauthorized, err))

			return
		}

		authorizationType := strings.ToLower(fields[0])
		if authorizationType != AuthorizationTypeBearer {
			err := fmt.Errorf("unsupported authorization type %s", authorizationType)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(web.CodeUnauthorized, err))

			return
		}

		accessToken := fields[1]

		payload, err := tokenMaker.VerifyToken(accessToken)
		if err != nil {
			code := web.CodeUnauthorized
			if err == tokenpkg.ErrExpiredToken {
				code = web.CodeTokenExpired
			}

			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(code, err))

			return
		}

		ctx.Set(AuthPayloadKey, payload)
		ctx.Next()
	}
}
