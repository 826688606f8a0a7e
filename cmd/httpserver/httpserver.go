// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/accountdelivery"
	"github.com/pocketbank/pocketbank/internal/accountrepo"
	"github.com/pocketbank/pocketbank/internal/accountservice"
	"github.com/pocketbank/pocketbank/internal/historydelivery"
	"github.com/pocketbank/pocketbank/internal/historyrepo"
	"github.com/pocketbank/pocketbank/internal/historyservice"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/internal/tokenservice"
	"github.com/pocketbank/pocketbank/internal/transferdelivery"
	"github.com/pocketbank/pocketbank/internal/transferrepo"
	"github.com/pocketbank/pocketbank/internal/transferservice"
	"github.com/pocketbank/pocketbank/internal/userdelivery"
	"github.com/pocketbank/pocketbank/internal/userrepo"
	"github.com/pocketbank/pocketbank/internal/userservice"
	"github.com/pocketbank/pocketbank/pkg/configpkg"
	"github.com/pocketbank/pocketbank/pkg/currencypkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn, config.VerifyDestination == configpkg.VerifyDestinationStrict)
	historyRepo := historyrepo.NewRepoPGS(conn)

	tokenService, err := tokenservice.New(config)
	if err != nil {
		return nil, errors.New("cannot create token service")
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo)
	transferService := transferservice.New(transferRepo, accountService)
	historyService := historyservice.New(historyRepo)

	userHandler := userdelivery.NewHandler(userService, tokenService)
	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)
	historyHandler := historydelivery.NewHandler(historyService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/auth/register", userHandler.Register)
	engine.POST("/auth/login", userHandler.Login)
	engine.POST("/auth/refresh", userHandler.Refresh)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenService.AccessMaker()))

	authRoutes.GET("/auth/me", userHandler.Me)
	authRoutes.PATCH("/auth/biometric", userHandler.SetBiometric)

	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts/:id/balance", accountHandler.GetBalance)

	authRoutes.POST("/transfers", transferHandler.Create)

	authRoutes.GET("/transactions/history", historyHandler.Query)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", currencypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
