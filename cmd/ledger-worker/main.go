package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/store/google"
	"ledger/internal/store/sqlite"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	logger.Info("Starting ledger-worker")

	validator := core.NewValidator(cfg.Schema())

	// The sqlite store is the sync source only when the ledger writes to it.
	var source worker.SyncSource
	if cfg.DataBackend == config.BackendSQLite {
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath, validator)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		source = repo
	} else {
		logger.Info("No sync source configured, mirroring message payloads", "backend", cfg.DataBackend)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	svc, err := google.NewService(startCtx, google.Credentials{
		JSON: cfg.GoogleServiceAccountJSON,
		File: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		cancelStart()
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	mirror, err := google.New(svc, google.Config{
		SpreadsheetID: cfg.GoogleSpreadsheetID,
		SheetName:     cfg.GoogleSheetName,
		CacheTTL:      cfg.SheetsCacheTTL,
	}, validator)
	if err == nil {
		err = mirror.Initialize(startCtx)
	}
	cancelStart()
	if err != nil {
		logger.Error("Failed to prepare mirror sheet", "error", err, "sheet", cfg.GoogleSheetName)
		os.Exit(1)
	}
	logger.Info("Google Sheets mirror ready", "sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", "error", err)
		}
	})

	mirrorWorker := worker.NewMirrorWorker(source, mirror, validator, cfg.SyncBatchSize)

	// On startup, mirror any rows that were stored while the worker was down
	logger.Info("Performing startup sync check...")
	if err := mirrorWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeTransactionAppended(gctx, mirrorWorker.HandleAppended)
	})
	if source != nil {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-ticker.C:
					if _, err := mirrorWorker.ProcessPending(gctx); err != nil {
						logger.Error("Periodic sync failed", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
