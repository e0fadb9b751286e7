package main

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"bankledger/internal/cli"
	"bankledger/internal/config"
	"bankledger/internal/db"
	"bankledger/internal/services"
	"bankledger/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := config.Load()
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open ledger database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx := context.Background()
	if err := store.NewSchema(database).Ensure(ctx); err != nil {
		slog.Error("schema initialization failed", "error", err)
		os.Exit(1)
	}

	users := store.NewUserStore(database)
	journal := store.NewJournalStore(database)
	txRunner := db.NewTxRunner(database)
	service := services.NewAccountService(txRunner, users, journal, cfg)

	ui := cli.NewUI(service, bufio.NewReader(os.Stdin), os.Stdout)
	ui.Run(ctx)
}
