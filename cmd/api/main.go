package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/pennywise/internal/adapters/dialogflow"
	"github.com/ewilliams-labs/pennywise/internal/adapters/ollama"
	"github.com/ewilliams-labs/pennywise/internal/adapters/postgres"
	"github.com/ewilliams-labs/pennywise/internal/adapters/rest"
	"github.com/ewilliams-labs/pennywise/internal/adapters/sqlite"
	"github.com/ewilliams-labs/pennywise/internal/config"
	"github.com/ewilliams-labs/pennywise/internal/core/ports"
	"github.com/ewilliams-labs/pennywise/internal/core/services"
	"github.com/ewilliams-labs/pennywise/internal/logger"
	"github.com/ewilliams-labs/pennywise/internal/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration (.env, config files, environment)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// 2. Initialize "Driven" Adapters
	// -- Ledger storage
	var repo ports.FinanceRepository
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		dbAdapter, err := sqlite.NewAdapter(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("initialize sqlite: %w", err)
		}
		defer dbAdapter.Close()
		repo = dbAdapter
	case config.StoragePostgres:
		dbAdapter, err := postgres.NewAdapter(ctx, cfg.Storage.Postgres)
		if err != nil {
			return fmt.Errorf("initialize postgres: %w", err)
		}
		defer dbAdapter.Close()
		repo = dbAdapter
	default:
		return fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
	log.Info("ledger storage ready", zap.String("driver", cfg.Storage.Driver))

	// -- Intent provider
	var detector ports.IntentDetector
	projectID := cfg.Dialogflow.ProjectID
	switch cfg.Intent.Provider {
	case config.ProviderDialogflow:
		// Credentials are looked up per request until found; the signal
		// context would cancel token refreshes during graceful shutdown.
		httpClient := dialogflow.NewAuthenticatedHTTPClient(context.Background(), cfg.Dialogflow.CredentialsFile)
		detector = dialogflow.NewClient(httpClient, cfg.Dialogflow.BaseURL)
		if projectID == "" {
			log.Warn("dialogflow.project_id is empty; /dialogflow-query will reject every request")
		}
	case config.ProviderOllama:
		detector = ollama.NewClient(cfg.Ollama.Host, cfg.Ollama.Model)
		if projectID == "" {
			projectID = cfg.App.Name
		}
	default:
		return fmt.Errorf("unknown intent provider: %s", cfg.Intent.Provider)
	}
	log.Info("intent provider ready", zap.String("provider", cfg.Intent.Provider))

	// 3. Initialize Core Logic
	finance := services.NewFinanceService(repo, cfg.Finance.UserID, log.Named("finance"))
	intent := services.NewIntentService(detector, cfg.Intent.Provider, log.Named("intent"))

	// 4. Initialize "Driving" Adapter
	handler := rest.NewHandler(finance, intent, rest.Options{
		ProjectID:      projectID,
		LanguageCode:   cfg.Dialogflow.LanguageCode,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, log.Named("http"))

	// 5. Start the Server
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("pennywise API listening", zap.String("addr", cfg.HTTP.Addr), zap.String("environment", cfg.App.Environment))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
