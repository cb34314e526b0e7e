package main

import (
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
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./data/academic.db", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "Academic API", cfg.OpenAPI.Title)
	assert.Empty(t, cfg.OpenAPI.ServerURL)
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

log:
  level: "DEBUG"
  format: "text"

openapi:
  title: "Registro Académico"
  server_url: "https://api.example.com"
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
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "Registro Académico", cfg.OpenAPI.Title)
	assert.Equal(t, "https://api.example.com", cfg.OpenAPI.ServerURL)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	t.Setenv("ACADEMIC_SERVER_HOST", "192.168.1.1")
	t.Setenv("ACADEMIC_SERVER_PORT", "3000")
	t.Setenv("ACADEMIC_DATABASE_DSN", "/custom/path.db")
	t.Setenv("ACADEMIC_LOG_LEVEL", "warn")
	t.Setenv("ACADEMIC_LOG_FORMAT", "text")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/custom/path.db", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_EnvironmentBeatsFile(t *testing.T) {
	clearEnv(t)

	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("server:\n  port: 9000\n"), 0644))
	t.Setenv("ACADEMIC_SERVER_PORT", "9100")

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoadConfig_FileNotFound_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	require.NoError(t, err)

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

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{"port too large", map[string]string{"ACADEMIC_SERVER_PORT": "70000"}, "server.port"},
		{"port zero", map[string]string{"ACADEMIC_SERVER_PORT": "0"}, "server.port"},
		{"unknown level", map[string]string{"ACADEMIC_LOG_LEVEL": "verbose"}, "log.level"},
		{"unknown format", map[string]string{"ACADEMIC_LOG_FORMAT": "xml"}, "log.format"},
		{"zero timeout", map[string]string{"ACADEMIC_SERVER_READ_TIMEOUT": "0s"}, "server.read_timeout"},
		{"bad server url", map[string]string{"ACADEMIC_OPENAPI_SERVER_URL": "not a url"}, "openapi.server_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

// =============================================================================
// Logger Setup Tests
// =============================================================================

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		debugOn bool
		infoOn  bool
		errorOn bool
	}{
		{"debug", "json", true, true, true},
		{"info", "json", false, true, true},
		{"warn", "text", false, false, true},
		{"error", "text", false, false, true},
		{"invalid", "json", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger := SetupLogger(&Config{Log: LogConfig{Level: tt.level, Format: tt.format}})
			require.NotNil(t, logger)

			ctx := t.Context()
			assert.Equal(t, tt.debugOn, logger.Enabled(ctx, -4))
			assert.Equal(t, tt.infoOn, logger.Enabled(ctx, 0))
			assert.Equal(t, tt.errorOn, logger.Enabled(ctx, 8))
		})
	}
}

// =============================================================================
// Config Validation Tests
// =============================================================================

func TestConfig_Validate_RequiresDSNAndTitle(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn must satisfy required")
	assert.Contains(t, err.Error(), "openapi.title must satisfy required")

	cfg.Database.DSN = ":memory:"
	cfg.OpenAPI.Title = "Academic API"
	assert.NoError(t, cfg.Validate())
}

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
		"ACADEMIC_SERVER_HOST",
		"ACADEMIC_SERVER_PORT",
		"ACADEMIC_SERVER_READ_TIMEOUT",
		"ACADEMIC_SERVER_WRITE_TIMEOUT",
		"ACADEMIC_SERVER_SHUTDOWN_TIMEOUT",
		"ACADEMIC_DATABASE_DSN",
		"ACADEMIC_LOG_LEVEL",
		"ACADEMIC_LOG_FORMAT",
		"ACADEMIC_OPENAPI_TITLE",
		"ACADEMIC_OPENAPI_SERVER_URL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
