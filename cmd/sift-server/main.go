package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gear6io/sift/server"
	"github.com/gear6io/sift/server/config"
)

func main() {
	// Load server configuration first
	cfg, err := config.LoadConfig("sift.yml")
	if err != nil {
		// Try default config if file not found
		cfg = config.LoadDefaultConfig()
	}

	// Initialize logger with configuration
	logger, err := config.SetupLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to setup logger: %v", err))
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create server instance
	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create server")
		os.Exit(1)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info().Msg("Shutting down dataset server...")
		cancel()
	}()

	// Start server
	logger.Info().Msg("Starting dataset server...")
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
		os.Exit(1)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	if err := srv.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
		os.Exit(1)
	}
}
