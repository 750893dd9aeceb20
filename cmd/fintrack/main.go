package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/navigator"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, os.Stdout, log.ComponentApp)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	store, res, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer res.Close()

	// a nil *amqp.Client must not end up inside the interface
	var publisher services.Publisher
	if client := backend.NewFactory(logger).CreatePublisher(ctx, cfg); client != nil {
		defer client.Close()
		publisher = client
	}

	tracker := services.NewTracker(navigator.New(store), publisher, logger)

	srv, err := apphttp.NewServer(cfg.Addr(), tracker, apphttp.Options{
		Logger:        logger,
		PostRateLimit: cfg.PostRateLimit,
	})
	if err != nil {
		return fmt.Errorf("build HTTP server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"addr", cfg.Addr(),
			"backend", cfg.DataBackend,
			"variant", cfg.LedgerVariant,
			log.FieldMonths, store.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	<-done
	return nil
}
