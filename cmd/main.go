package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/websters-shivaji/registration-system/config"
	"github.com/websters-shivaji/registration-system/handlers"
	"github.com/websters-shivaji/registration-system/models"
	api "github.com/websters-shivaji/registration-system/routes"
	"github.com/websters-shivaji/registration-system/services"
	"github.com/websters-shivaji/registration-system/sheets"
	"github.com/websters-shivaji/registration-system/storage"
)

const initializeTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_backend", cfg.StorageBackend))

	uploader, err := newUploader(cfg)
	if err != nil {
		logger.Error("failed to initialize file uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("file uploader initialized")

	workshopStore, err := sheets.NewClient(sheets.ClientConfig{
		ClientEmail:   cfg.GoogleClientEmail,
		PrivateKey:    cfg.GooglePrivateKey,
		SpreadsheetID: cfg.WorkshopSheetID,
		Header:        models.WorkshopHeader,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create workshop spreadsheet client", slog.Any("error", err))
		os.Exit(1)
	}

	eventStore, err := sheets.NewClient(sheets.ClientConfig{
		ClientEmail:   cfg.GoogleClientEmail,
		PrivateKey:    cfg.GooglePrivateKey,
		SpreadsheetID: cfg.EventSheetID,
		Header:        models.EventHeader,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create event spreadsheet client", slog.Any("error", err))
		os.Exit(1)
	}

	// Eager bootstrap so misconfiguration shows up at startup instead of on
	// the first submission. Failures are not fatal here: the services call
	// Initialize again per request and it is idempotent.
	initCtx, cancelInit := context.WithTimeout(context.Background(), initializeTimeout)
	if err := workshopStore.Initialize(initCtx); err != nil {
		logger.Error("workshop spreadsheet bootstrap failed, will retry on first request", slog.Any("error", err))
	}
	if err := eventStore.Initialize(initCtx); err != nil {
		logger.Error("event spreadsheet bootstrap failed, will retry on first request", slog.Any("error", err))
	}
	cancelInit()

	workshopDetector := services.NewDuplicateDetector(workshopStore, logger)
	eventDetector := services.NewDuplicateDetector(eventStore, logger)
	workshopService := services.NewWorkshopService(workshopStore, workshopDetector, logger)
	eventService := services.NewEventService(eventStore, uploader, eventDetector, logger)
	logger.Info("services initialized")

	registrationHandler := handlers.NewRegistrationHandler(workshopService, eventService, logger)
	eventHandler := handlers.NewEventHandler(logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, registrationHandler, eventHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

// newUploader selects the attachment storage backend from configuration.
func newUploader(cfg *config.Config) (storage.FileUploader, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendR2:
		return storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			KeyPrefix:       cfg.R2AttachmentPrefix,
		})
	default:
		return storage.NewGoogleDriveUploader(context.Background(), storage.GoogleDriveUploaderConfig{
			ClientEmail: cfg.GoogleClientEmail,
			PrivateKey:  cfg.GooglePrivateKey,
			FolderID:    cfg.DriveFolderID,
		})
	}
}
