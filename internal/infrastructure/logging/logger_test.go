package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/config"
)

var linePattern = regexp.MustCompile(`^\[INFO\] \[api\] \[\d{2}:\d{2}:\d{2}\] request handled status=200 path=/api/receipts/pending\n$`)

func TestConsoleHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "info"}).With("system", "api")

	logger.Info("request handled", "status", 200, "path", "/api/receipts/pending")

	assert.Regexp(t, linePattern, buf.String())
	assert.NotContains(t, buf.String(), "\033[", "no colors when not a terminal")
}

func TestConsoleHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "warn"})

	logger.Info("hidden")
	logger.Warn("conflict", "receipt_id", "r1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "receipt_id=r1")
}

func TestConsoleHandler_GroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "debug"})

	logger.WithGroup("match").Debug("evaluated",
		"filename", "2024-01-15 Costco.pdf",
		slog.Group("scores", "date", "high", "amount", "medium"),
	)

	out := buf.String()
	assert.Contains(t, out, `match.filename="2024-01-15 Costco.pdf"`)
	assert.Contains(t, out, "match.scores.date=high")
	assert.Contains(t, out, "match.scores.amount=medium")
}

func TestConsoleHandler_WithAttrsIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerTo(&buf, config.LoggingConfig{})
	tenant := base.With("tenant", "t1")

	base.Info("plain")
	tenant.Info("scoped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "tenant=")
	assert.Contains(t, lines[1], "tenant=t1")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	logger.Info("committed", "receipt_id", "r1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "committed", record["msg"])
	assert.Equal(t, "r1", record["receipt_id"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}
