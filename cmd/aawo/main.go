package main

import (
	"fmt"
	"os"

	"aawo/internal/config"
	"aawo/internal/db"
	"aawo/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	app := ui.NewApp(store, cfg)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
