package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T, dsn string) *Config {
	t.Helper()
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            freePort(t),
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{DSN: dsn},
		Log:      LogConfig{Level: "error", Format: "text"},
		OpenAPI:  OpenAPIConfig{Title: "Academic API"},
	}
}

// =============================================================================
// Server Tests
// =============================================================================

func TestServer_StartServeShutdown(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "academic.db")
	cfg := testConfig(t, dsn)

	server, err := NewServer(cfg, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Start(ctx)
	}()

	url := "http://" + cfg.Server.Address() + "/health"
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, statErr := os.Stat(dsn)
	assert.NoError(t, statErr, "database file should exist")
}

func TestServer_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := testConfig(t, ":memory:")
	cfg.Server.Port = l.Addr().(*net.TCPAddr).Port

	server, err := NewServer(cfg, testLogger())
	require.NoError(t, err)

	err = server.Start(context.Background())
	var sErr *ServerError
	require.True(t, errors.As(err, &sErr), "got %v", err)
	assert.Equal(t, ExitHTTPServerError, sErr.ExitCode)
	assert.Equal(t, "Start", sErr.Op)
}

func TestNewServer_DatabaseError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// The data directory cannot be created below a regular file.
	_, err := NewServer(testConfig(t, filepath.Join(blocker, "sub", "academic.db")), testLogger())

	var sErr *ServerError
	require.True(t, errors.As(err, &sErr), "got %v", err)
	assert.Equal(t, ExitDatabaseError, sErr.ExitCode)
}

func TestEnsureDataDir(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, ensureDataDir(":memory:"))
	require.NoError(t, ensureDataDir("file::memory:?cache=shared"))

	dsn := "file:" + filepath.Join(root, "a", "b", "x.db") + "?_busy_timeout=" + strconv.Itoa(5000)
	require.NoError(t, ensureDataDir(dsn))
	info, err := os.Stat(filepath.Join(root, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestServerError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ServerError{Op: "Start", Err: cause, ExitCode: ExitHTTPServerError}

	assert.Equal(t, "Start: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
