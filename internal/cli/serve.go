package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eshaffer321/receipt-inbox/internal/api"
	"github.com/eshaffer321/receipt-inbox/internal/api/middleware"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/config"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port    int // 0 keeps the configured port
	Verbose bool
}

// RunServe runs the API server until ctx is cancelled, then shuts down gracefully.
func RunServe(ctx context.Context, cfg *config.Config, flags ServeFlags) error {
	app, err := NewApp(cfg, flags.Verbose, "api")
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	apiCfg := api.DefaultConfig()
	apiCfg.Port = cfg.Server.Port
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		apiCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	apiCfg.RateLimit = middleware.RateLimitConfig{
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
	}

	server := api.NewServer(apiCfg, app.Receipts, app.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		app.Logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		app.Logger.Error("server shutdown error", slog.Any("error", err))
		return err
	}

	if err := <-errCh; err != nil {
		return err
	}
	app.Logger.Info("server stopped")
	return nil
}
