package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "receipts.db")
	cfg.Observability.Logging.Level = "error"
	return cfg
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testConfig(t), false, "test")
	require.NoError(t, err)
	defer app.Close()

	stats, err := app.Receipts.Stats(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalReceipts)
}

func TestNewApp_InvalidMatchingConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Matching.AmountTolerance = "abc"

	_, err := NewApp(cfg, false, "test")
	assert.ErrorContains(t, err, "invalid matching config")
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = 0 // any free port
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- RunServe(ctx, cfg, ServeFlags{Port: 0})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
