// Package main starts the mobile banking API server.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/pocketbank/pocketbank/cmd/httpserver"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/pkg/configpkg"
	"github.com/pocketbank/pocketbank/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening the database connection failed")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("building the http server failed")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("mobile banking api listening")

	if err := server.Engine.Run(config.ServerAddress); err != nil {
		logger.Fatal().Err(err).Msg("http server stopped")
	}
}
