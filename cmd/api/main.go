package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prodtrack/internal/archive"
	"prodtrack/internal/catalog"
	"prodtrack/internal/config"
	"prodtrack/internal/handler"
	"prodtrack/internal/router"
	"prodtrack/internal/service"
	"prodtrack/internal/store"
	"prodtrack/internal/vision"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting prodtrack API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the catalog database
	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	cat, err := catalog.Open(ctx, st, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// Initialize the vision analyzer; without an API key scans still
	// work but return empty drafts for manual entry.
	var analyzer vision.Analyzer
	if cfg.Gemini.APIKey != "" {
		analyzer, err = vision.NewGeminiAnalyzer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise Gemini analyzer, image analysis disabled")
			analyzer = vision.NewDisabled(logger)
		}
	} else {
		analyzer = vision.NewDisabled(logger)
		logger.Info().Msg("no Gemini API key configured, image analysis disabled")
	}

	// Initialize scan image archive with S3 and local fallback
	var imageArchive archive.Archive
	if cfg.Archive.S3Enabled {
		imageArchive, err = archive.NewS3Archive(ctx, cfg.Archive.Bucket, cfg.Archive.Region, cfg.Archive.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 archive, falling back to local directory")
			imageArchive, err = archive.NewDirArchive(cfg.Archive.Dir, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize archive: %w", err)
			}
		}
	} else {
		imageArchive, err = archive.NewDirArchive(cfg.Archive.Dir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize archive: %w", err)
		}
		logger.Info().Msg("using local directory for scan images (S3 disabled)")
	}

	// Initialize services
	scanService := service.NewScanService(analyzer, cat, imageArchive, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(cat, logger)
	scanHandler := handler.NewScanHandler(scanService, logger)
	viewsHandler := handler.NewViewsHandler(cat, logger)

	// Initialize router
	mux := router.New(productHandler, scanHandler, viewsHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
