// @title Face Detection API
// @version 1.0.0
// @description Upload a JPG or PNG image, tune scale factor, min neighbors and rectangle color, and download the annotated result.
// @BasePath /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"facelens-go/internal/api"
	"facelens-go/internal/config"
	"facelens-go/internal/logging"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Configure(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("instance_id", cfg.InstanceID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("backend", cfg.DetectorBackend).
		Bool("nats_enabled", cfg.NatsEnabled).
		Msg("Starting face detection service")

	server, err := api.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server shutdown complete")
	}
}
