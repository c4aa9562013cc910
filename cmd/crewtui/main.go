package main

import (
	"context"
	"fmt"
	"os"

	"github.com/JonMunkholm/crewboard/internal/admin"
	"github.com/JonMunkholm/crewboard/internal/config"
	"github.com/JonMunkholm/crewboard/internal/core"
	_ "github.com/JonMunkholm/crewboard/internal/core/screens" // Register all screens
	"github.com/JonMunkholm/crewboard/internal/database"
	"github.com/JonMunkholm/crewboard/internal/logging"
	"github.com/JonMunkholm/crewboard/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "crewtui:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logging.SetupWriter(logFile, cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Database.Migrate {
		if err := database.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
	}

	pool, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	reset := &admin.ResetDbs{DB: pool}
	model := tui.New(tui.Options{
		Backend:       core.NewService(pool, cfg.Table.MaxPageSize),
		PageSize:      cfg.Table.PageSize,
		DebounceDelay: cfg.Table.DebounceDelay,
		Reset:         reset.ResetDemo,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
