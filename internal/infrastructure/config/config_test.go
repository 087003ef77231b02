package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RECEIPTS_DB_PATH", "test.db")
	t.Setenv("RECEIPTS_PORT", "9090")
	t.Setenv("MATCH_WINDOW_DAYS", "30")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadFromEnv()
	assert.NotNil(t, cfg)
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Matching.WindowDays)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	os.Unsetenv("RECEIPTS_DB_PATH")
	os.Unsetenv("RECEIPTS_PORT")
	os.Unsetenv("MATCH_WINDOW_DAYS")

	cfg := LoadFromEnv()
	assert.Equal(t, "receipts.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Matching.HighDateDays)
	assert.Equal(t, 21, cfg.Matching.MediumDateDays)
	assert.Equal(t, 21, cfg.Matching.WindowDays)
	assert.Equal(t, "0.1", cfg.Matching.AmountTolerance)
}

func TestLoadFromEnv_BadIntKeepsDefault(t *testing.T) {
	t.Setenv("RECEIPTS_PORT", "not-a-port")

	cfg := LoadFromEnv()
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	t.Setenv("RECEIPTS_DB_PATH", "fallback.db")

	cfg, err := LoadOrEnv_WithPath("nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestLoadOrEnv_MalformedFileIsAnError(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("matching: [unclosed"), 0644))
	t.Setenv("RECEIPTS_DB_PATH", "fallback.db")

	cfg, err := LoadOrEnv_WithPath(configPath)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, configPath)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
matching:
  amount_tolerance: "0.05"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "0.05", cfg.Matching.AmountTolerance)
	assert.Equal(t, 21, cfg.Matching.MediumDateDays)
	assert.Equal(t, "receipts.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestEnvVarExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  database_path: "${TEST_DB_PATH}"
server:
  port: 7000
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	t.Setenv("TEST_DB_PATH", "expanded.db")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestMatchingConfig_ToMatcherConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m, err := Default().Matching.ToMatcherConfig()
		require.NoError(t, err)
		assert.Equal(t, 7, m.HighDateDays)
		assert.Equal(t, 21, m.MediumDateDays)
		assert.Equal(t, 21, m.WindowDays)
		assert.True(t, decimal.RequireFromString("0.10").Equal(m.AmountTolerance))
	})

	t.Run("bad tolerance", func(t *testing.T) {
		cfg := Default().Matching
		cfg.AmountTolerance = "ten percent"
		_, err := cfg.ToMatcherConfig()
		assert.ErrorContains(t, err, "amount_tolerance")
	})

	t.Run("negative tolerance", func(t *testing.T) {
		cfg := Default().Matching
		cfg.AmountTolerance = "-0.1"
		_, err := cfg.ToMatcherConfig()
		assert.Error(t, err)
	})

	t.Run("inverted date bands", func(t *testing.T) {
		cfg := Default().Matching
		cfg.HighDateDays = 30
		_, err := cfg.ToMatcherConfig()
		assert.ErrorContains(t, err, "date bands")
	})
}
