// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"email-ledger/internal/common/config"
	"email-ledger/internal/common/logger"
	"email-ledger/internal/common/observability"
	"email-ledger/internal/extractor"
	"email-ledger/internal/ledger"
	"email-ledger/internal/pipeline"
	"email-ledger/internal/server"
)

// ledgerAdapter lifts the concrete sheets client into the pipeline's Ledger
// interface.
type ledgerAdapter struct {
	client *ledger.Client
}

func (a ledgerAdapter) Connect(ctx context.Context) (pipeline.LedgerHandle, error) {
	handle, err := a.client.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrapLog := logger.New("info", "console")
		bootstrapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting email LLM processor...",
		zap.String("service", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// Clients are injected, never process-wide globals, so tests can swap in
	// doubles.
	extractorClient := extractor.NewClient(&extractor.Config{
		BaseURL:     cfg.APIs.Groq.BaseURL,
		APIKey:      cfg.APIs.Groq.APIKey,
		Model:       cfg.APIs.Groq.Model,
		Temperature: cfg.APIs.Groq.Temperature,
	}, log)

	ledgerClient := ledger.NewClient(&ledger.Config{
		CredentialsFile: cfg.Ledger.CredentialsFile,
		SpreadsheetID:   cfg.Ledger.SpreadsheetID,
		Worksheet:       cfg.Ledger.Worksheet,
		Timeout:         config.GetDuration(cfg.Ledger.Timeout),
	}, log)

	pipe := pipeline.New(&pipeline.Config{
		MaxAttempts:    cfg.Pipeline.MaxAttempts,
		InitialBackoff: config.GetDuration(cfg.Pipeline.InitialBackoff),
		AttemptTimeout: config.GetDuration(cfg.Pipeline.AttemptTimeout),
	}, extractorClient, ledgerAdapter{client: ledgerClient}, log)

	srv := server.New(cfg, pipe, ledgerAdapter{client: ledgerClient}, obs, log)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during shutdown", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
