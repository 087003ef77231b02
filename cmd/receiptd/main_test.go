package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMatchCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "receipts.db")
	store, err := storage.NewStorage(db)
	require.NoError(t, err)
	require.NoError(t, store.CreateTransaction(context.Background(), &storage.Transaction{
		ID:       "t1",
		TenantID: "household",
		Date:     time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC),
		Payee:    "Shell Oil 123",
		Amount:   decimal.RequireFromString("-40.00"),
	}))
	require.NoError(t, store.Close())

	out, err := run(t, "match", "--config", "missing.yaml", "--db", db,
		"--tenant", "household", "--now", "2026-01-05", "12-28 Shell Auto-Fuel $40.00.jpg")

	require.NoError(t, err)
	assert.Contains(t, out, "date=2025-12-28")
	assert.Contains(t, out, "category=Auto:Fuel")
	assert.Contains(t, out, "Decision: auto-match")
	assert.Contains(t, out, "t1")
}

func TestMatchCommand_BadNow(t *testing.T) {
	_, err := run(t, "match", "--config", "missing.yaml", "--db", filepath.Join(t.TempDir(), "x.db"),
		"--now", "yesterday", "x.pdf")
	assert.ErrorContains(t, err, "--now")
}

func TestInboxCommand_MalformedConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage: [unclosed"), 0o644))

	_, err := run(t, "inbox", "--config", cfgPath, "--db", filepath.Join(dir, "x.db"))
	assert.ErrorContains(t, err, cfgPath)
}
