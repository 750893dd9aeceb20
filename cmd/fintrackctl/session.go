package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/navigator"
	"fintrack/internal/services"
)

// session is one command's view of the snapshot store.
type session struct {
	tracker *services.Tracker
	logger  *log.Logger
	closers []func() error
}

func openSession(cmd *cobra.Command) (*session, error) {
	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg, os.Stderr, log.ComponentCLI)

	store, res, err := cli.OpenStore(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	s := &session{logger: logger, closers: []func() error{res.Close}}

	var publisher services.Publisher
	if client := backend.NewFactory(logger).CreatePublisher(cmd.Context(), cfg); client != nil {
		s.closers = append(s.closers, client.Close)
		publisher = client
	}
	s.tracker = services.NewTracker(navigator.New(store), publisher, logger)
	return s, nil
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Error("failed to close resource", log.FieldError, err)
		}
	}
}

func parseMonthArg(arg string) (core.MonthKey, error) {
	key, err := core.ParseMonthKey(arg)
	if err != nil {
		return core.MonthKey{}, fmt.Errorf("invalid month %q: %w", arg, err)
	}
	return key, nil
}
