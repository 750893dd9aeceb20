// Package cli provides common CLI initialization utilities shared by
// cmd/fintrack, cmd/fintrack-worker and cmd/fintrackctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/snapshot"
)

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// makes it the slog default.
func SetupLogger(cfg *config.Config, out io.Writer, component string) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	lc := log.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.LogFormat
	lc.Component = component
	if out != nil {
		lc.Output = out
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore opens the configured persistence backend and the snapshot store
// on top of it. Close the returned result when done.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*snapshot.Store, *backend.Result, error) {
	variant, err := ledger.ParseVariant(cfg.LedgerVariant)
	if err != nil {
		return nil, nil, err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := snapshot.Open(ctx, res.Persister, variant)
	if err != nil {
		_ = res.Close()
		return nil, nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return store, res, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. After
// the signal, cleanup runs with a context bounded by timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached", log.FieldOperation, log.OpShutdown)
			return
		}
		logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
	}()

	return ctx, done
}
