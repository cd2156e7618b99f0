package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Config Loading Tests
// =============================================================================

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, filepath.Join("data", "retinue.db"), cfg.Database.DSN)
	assert.Empty(t, cfg.Catalog.Paths)
	assert.Equal(t, 50, cfg.Resolve.MaxBatch)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	configContent := `
server:
  host: "127.0.0.1"
  port: 9000
  read_timeout: 60s
  write_timeout: 60s
  shutdown_timeout: 15s

database:
  dsn: "/tmp/test.db"

catalog:
  paths:
    - /srv/cards/core.yaml
    - /srv/cards/expansions

resolve:
  max_batch: 10

log:
  level: "debug"
  format: "text"
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.Database.DSN)
	assert.Equal(t, []string{"/srv/cards/core.yaml", "/srv/cards/expansions"}, cfg.Catalog.Paths)
	assert.Equal(t, 10, cfg.Resolve.MaxBatch)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	t.Setenv("RETINUE_SERVER_HOST", "192.168.1.1")
	t.Setenv("RETINUE_SERVER_PORT", "3000")
	t.Setenv("RETINUE_DATABASE_DSN", "/custom/path.db")
	t.Setenv("RETINUE_RESOLVE_MAX_BATCH", "5")
	t.Setenv("RETINUE_LOG_LEVEL", "warn")
	t.Setenv("RETINUE_LOG_FORMAT", "text")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/custom/path.db", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.Resolve.MaxBatch)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_DataDirDerivesDSN(t *testing.T) {
	clearEnv(t)

	t.Setenv("RETINUE_DATA_DIR", "/var/lib/retinue")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/var/lib/retinue", "retinue.db"), cfg.Database.DSN)
}

func TestLoadConfig_ExplicitDSNOverridesDataDir(t *testing.T) {
	clearEnv(t)

	t.Setenv("RETINUE_DATA_DIR", "/var/lib/retinue")
	t.Setenv("RETINUE_DATABASE_DSN", "/custom/path.db")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/custom/path.db", cfg.Database.DSN)
}

func TestLoadConfig_FileNotFound_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	require.NoError(t, err) // Should not error, just use defaults

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)

	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("invalid: yaml: content: [[["), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidMaxBatch(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETINUE_RESOLVE_MAX_BATCH", "0")

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "max_batch")
}

// =============================================================================
// Logger Setup Tests
// =============================================================================

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"invalid", false, true, true}, // falls back to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := SetupLogger(&Config{Log: LogConfig{Level: tt.level, Format: "json"}}, &buf)

			logger.Debug("debug message")
			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug message")))
			logger.Info("info message")
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info message")))
			logger.Warn("warn message")
			assert.Equal(t, tt.warnSeen, bytes.Contains(buf.Bytes(), []byte("warn message")))
		})
	}
}

func TestSetupLogger_Format(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer

	SetupLogger(&Config{Log: LogConfig{Level: "info", Format: "json"}}, &jsonBuf).Info("hello")
	SetupLogger(&Config{Log: LogConfig{Level: "info", Format: "text"}}, &textBuf).Info("hello")

	assert.Contains(t, jsonBuf.String(), `"msg":"hello"`)
	assert.Contains(t, textBuf.String(), "msg=hello")
}

// =============================================================================
// Config Validation Tests
// =============================================================================

func TestConfig_Address(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
	}

	assert.Equal(t, "localhost:8080", cfg.Server.Address())
}

// =============================================================================
// Test Helpers
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"RETINUE_SERVER_HOST",
		"RETINUE_SERVER_PORT",
		"RETINUE_DATABASE_DSN",
		"RETINUE_DATA_DIR",
		"RETINUE_CATALOG_PATHS",
		"RETINUE_RESOLVE_MAX_BATCH",
		"RETINUE_LOG_LEVEL",
		"RETINUE_LOG_FORMAT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
