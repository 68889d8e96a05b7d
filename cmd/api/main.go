package main

import (
	"os"

	"github.com/yigit/campushub/internal/pkg/logger"
	"github.com/yigit/campushub/internal/server"
)

// @title CampusHub API
// @version 1.0
// @description Campus chat and discussion backend: scoped chats, direct messages, profiles and discussion threads.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity-provider JWT, required when auth.require_token is set

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
