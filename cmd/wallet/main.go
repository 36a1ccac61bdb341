package main

import (
	"context"
	"os"

	"wallet/internal/cli"
	"wallet/internal/ledger"
	"wallet/internal/log"
	"wallet/internal/services"
	"wallet/internal/shell"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	// Logs go to stderr; stdout belongs to the menu
	logger := cli.SetupLogger(os.Stderr, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(os.Stderr, cfg.LogLevel)

	ctx := context.Background()

	store := cli.InitStore(ctx, logger, cfg)
	if store.Cleanup != nil {
		defer store.Cleanup()
	}

	var opts []shell.Option
	opts = append(opts, shell.WithLogger(logger))

	var mirror *services.MirrorService
	if cfg.MirrorEnabled() {
		mirror = cli.InitMirror(ctx, logger, cfg, store.Store.Location())
		defer mirror.Close()
		if mirror.Enabled() {
			opts = append(opts, shell.WithExitHook(mirror.Sync))
		}
	}

	l := ledger.New(store.Store,
		ledger.WithStatus(os.Stdout),
		ledger.WithLogger(logger))

	logger.Info("Starting wallet", log.FieldBackend, cfg.DataBackend, log.FieldPath, store.Store.Location())

	if err := shell.New(l, os.Stdin, os.Stdout, opts...).Run(ctx); err != nil {
		logger.Error("Wallet exited with unsaved changes", log.FieldError, err)
		mirror.Close()
		if store.Cleanup != nil {
			store.Cleanup()
		}
		os.Exit(1)
	}
}
