package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, os.Stdout, log.ComponentWorker)

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}
	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	variant, err := ledger.ParseVariant(cfg.LedgerVariant)
	if err != nil {
		return err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	factory := backend.NewFactory(logger)
	res, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer res.Close()

	mirror, err := factory.CreateMirror(ctx, cfg)
	if err != nil {
		return err
	}
	mw := worker.NewMirrorWorker(res.Persister, variant, mirror, logger)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to AMQP: %w", err)
	}
	defer client.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting periodic resync", "interval", cfg.ResyncInterval.String())
		return mw.RunResync(gctx, cfg.ResyncInterval)
	})

	g.Go(func() error {
		logger.Info("Consuming month events", "queue", cfg.AMQPQueue)
		return client.ConsumeMonthEvents(gctx, mw.HandleEvent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	<-done
	return nil
}
