package backend

import (
	"context"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/snapshot"
	"fintrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

var _ Factory = (*DefaultFactory)(nil)

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case FileBackend:
		f.logger.InfoContext(ctx, "Initialized file backend", "path", cfg.DataFile)
		return &Result{Persister: snapshot.NewFilePersister(cfg.DataFile)}, nil
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, cfg)
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory backend, saved months are lost on exit")
		return &Result{Persister: snapshot.NewMemoryPersister(nil)}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &Result{
		Persister: storage.KeyPersister{Repo: repo, Key: snapshot.StorageKey},
		Cleanup:   repo.Close,
	}, nil
}

// CreatePublisher connects to the change feed. An empty AMQP URL disables
// it; a broker that cannot be reached is logged and also disables it.
func (f *DefaultFactory) CreatePublisher(ctx context.Context, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		f.logger.InfoContext(ctx, "AMQP not configured, month events disabled")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without month events",
			log.FieldError, err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

// CreateMirror builds the spreadsheet mirror the worker writes to.
func (f *DefaultFactory) CreateMirror(ctx context.Context, cfg *config.Config) (sheets.Mirror, error) {
	switch cfg.MirrorBackend {
	case "memory":
		f.logger.InfoContext(ctx, "Initialized in-memory mirror")
		return memory.New(), nil
	case "sheets":
		cli, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized Google Sheets mirror", "sheet", cfg.GoogleSheetName)
		return cli, nil
	default:
		return nil, fmt.Errorf("unsupported mirror backend: %s", cfg.MirrorBackend)
	}
}
