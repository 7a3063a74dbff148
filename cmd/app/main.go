package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitstudio/internal/booking"
	"fitstudio/internal/catalog"
	"fitstudio/internal/config"
	"fitstudio/internal/db"
	"fitstudio/internal/email"
	"fitstudio/internal/logger"
	"fitstudio/internal/server"
)

func main() {
	logger.Init()
	logger.Info("Starting FitStudio application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	var (
		catalogRepo catalog.Repository
		bookingRepo booking.Repository
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		logger.Info("Connecting to database...")
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Migrations completed")

		catalogRepo = catalog.NewRepository(database)
		bookingRepo = booking.NewRepository(database)
	default:
		catalogRepo = catalog.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository()
	}
	logger.Info("Storage ready", "backend", cfg.Storage)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogService := catalog.NewService(catalogRepo, cfg.StoreTimeout)
	if cfg.SeedSampleClasses {
		if err := catalogService.Seed(ctx, catalog.SampleSessions(time.Now())); err != nil {
			logger.Fatalf("Failed to seed sample classes: %v", err)
		}
		logger.Info("Sample classes seeded")
	}

	var notifier booking.Notifier
	if cfg.NotificationsEnabled {
		emailService := email.New(email.Config{
			From:      cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
			SMTPHost:  cfg.SMTPHost,
			SMTPPort:  cfg.SMTPPort,
			SMTPUser:  cfg.SMTPUser,
			SMTPPass:  cfg.SMTPPass,
			RedisAddr: cfg.RedisAddr,
		})
		defer emailService.Close()
		go emailService.Start(ctx)
		notifier = emailService
		logger.Info("Email service initialized")
	}

	bookingService := booking.NewService(bookingRepo, catalogService, notifier, cfg.StoreTimeout)
	go booking.NewReconciler(bookingService, cfg.ReconcileInterval).Start(ctx)

	srv := server.New(cfg, catalogService, bookingService)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
