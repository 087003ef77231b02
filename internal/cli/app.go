package cli

import (
	"fmt"
	"log/slog"

	"github.com/eshaffer321/receipt-inbox/internal/application/service"
	"github.com/eshaffer321/receipt-inbox/internal/domain/matcher"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/config"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/logging"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

// App bundles the wired dependencies every command needs.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *storage.Storage
	Receipts *service.ReceiptService
}

// NewApp opens storage and builds the receipt service from cfg.
// Verbose forces debug logging. Callers must Close the App.
func NewApp(cfg *config.Config, verbose bool, system string) (*App, error) {
	loggingCfg := cfg.Observability.Logging
	if verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, system)

	matcherCfg, err := cfg.Matching.ToMatcherConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid matching config: %w", err)
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	receipts := service.NewReceiptService(store, matcher.NewMatcher(matcherCfg), logger, service.Options{
		MaxParallel: cfg.Matching.MaxParallel,
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Receipts: receipts,
	}, nil
}

// Close releases storage.
func (a *App) Close() error {
	return a.Store.Close()
}
