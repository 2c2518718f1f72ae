package main

import (
	"fmt"
	"os"

	"trade-journal/internal/cli"
	"trade-journal/internal/config"
	"trade-journal/internal/logging"
	"trade-journal/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("TRADE_JOURNAL_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()
	logger = logging.WithComponent(logger, "cli")

	tradeStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open trade store")
		fmt.Fprintf(os.Stderr, "cannot open trade database at %s: %v\n", cfg.Store.Path, err)
		os.Exit(1)
	}
	defer tradeStore.Close()

	app := &cli.App{
		Config: cfg,
		Logger: logger,
		Store:  tradeStore,
	}

	if err := cli.NewRootCmd(app).Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
