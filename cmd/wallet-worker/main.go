package main

import (
	"context"
	"errors"
	"os"

	"wallet/internal/amqp"
	"wallet/internal/cli"
	"wallet/internal/log"
	gsheet "wallet/internal/sheets/google"
	"wallet/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Stdout, "info")
	logger.Info("Starting wallet-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	if summary, err := worker.Summary(ctx, sheetsClient); err != nil {
		logger.Warn("Could not read current mirror", log.FieldError, err)
	} else {
		logger.Info("Current mirror", log.FieldBalance, summary.Balance.String())
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewSnapshotWorker(sheetsClient, logger)

	if err := amqpClient.ConsumeSnapshots(ctx, w.HandleSnapshot); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
