package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/store/csvfile"
	"ledger/internal/store/google"
	"ledger/internal/store/memory"
	"ledger/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	validator := core.NewValidator(config.Schema)

	var (
		st      store.RecordStore
		cleanup CleanupFunc
		err     error
	)
	switch config.Type {
	case CSVBackend:
		st = csvfile.New(config.CSVPath, validator)
		f.logger.Info("Initialized csv backend", "path", config.CSVPath)
	case MemoryBackend:
		st = memory.New(config.Schema)
		f.logger.Info("Initialized memory backend")
	case SQLiteBackend:
		st, cleanup, err = f.createSQLiteBackend(config, validator)
	case SheetsBackend:
		st, err = f.createSheetsBackend(ctx, config, validator)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: st, Cleanup: cleanup}
	f.attachPublisher(config, result)
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config, validator *core.Validator) (store.RecordStore, CleanupFunc, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath, validator)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config, validator *core.Validator) (store.RecordStore, error) {
	svc, err := google.NewService(ctx, google.Credentials{
		JSON: config.GoogleServiceAccountJSON,
		File: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	cli, err := google.New(svc, google.Config{
		SpreadsheetID: config.GoogleSpreadsheetID,
		SheetName:     config.GoogleSheetName,
		CacheTTL:      config.SheetsCacheTTL,
	}, validator)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"sheet", config.GoogleSheetName,
		"cache_ttl", config.SheetsCacheTTL)
	return cli, nil
}

// attachPublisher connects the optional AMQP client. A broker that cannot be
// reached only disables event publishing.
func (f *DefaultFactory) attachPublisher(config Config, result *BackendResult) {
	if config.AMQPURL == "" {
		return
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	var publisher services.Publisher = client
	result.Publisher = publisher
	storeCleanup := result.Cleanup
	result.Cleanup = func() error {
		var errs *multierror.Error
		if storeCleanup != nil {
			if err := storeCleanup(); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("store: %w", err))
			}
		}
		if err := client.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("amqp: %w", err))
		}
		return errs.ErrorOrNil()
	}
}
