package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpdelivery "github.com/Xausdorf/qr-platba/internal/delivery/http"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/config"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/metrics"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/postgres"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/qrgenerator"
	"github.com/Xausdorf/qr-platba/internal/usecase/generateqr"
	"github.com/Xausdorf/qr-platba/internal/usecase/issue"
)

const (
	readHeaderTimeout     = 5 * time.Second
	gracefulShutdownDelay = 5 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	defaults := cfg.QROptions()
	if err := defaults.Validate(); err != nil {
		logger.Error("invalid QR defaults", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	generateQRUC := generateqr.NewUseCase(qrgenerator.NewGenerator(), m)

	var issueUC *issue.UseCase
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database init failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			logger.Error("database migration failed", "error", err)
			pool.Close()
			os.Exit(1) //nolint:gocritic // pool closed explicitly above
		}

		issueUC = issue.NewUseCase(postgres.NewUnitOfWork(pool), m)
		logger.Info("stored payments enabled")
	} else {
		logger.Info("DATABASE_URL not set, stored payments disabled")
	}

	handler := httpdelivery.NewHandler(generateQRUC, issueUC, defaults, logger)
	router := httpdelivery.NewRouter(handler, m.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", serveErr)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownDelay)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
