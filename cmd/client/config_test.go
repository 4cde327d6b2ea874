package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8501", cfg.Addr)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.QA)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Summarize)
	assert.Equal(t, 120*time.Second, cfg.Timeouts.OCR)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	yaml := "backend_url: http://gpu-box:8000\ntimeouts:\n  qa: 5s\n  ocr: 3m\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("CLIENT_ADDR", ":9090")
	t.Setenv("TIMEOUTS_SUMMARIZE", "90s")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "http://gpu-box:8000", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.QA)
	assert.Equal(t, 90*time.Second, cfg.Timeouts.Summarize)
	assert.Equal(t, 3*time.Minute, cfg.Timeouts.OCR)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.client().Health)
}

func TestLoadConfigBackendURLFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKEND_URL", "http://10.0.0.5:8000")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000", cfg.BackendURL)
}

func TestLoadConfigRejectsUnknownTransport(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CLIENT_TRANSPORT", "carrier-pigeon")

	_, err := loadConfig("")
	assert.ErrorContains(t, err, "unknown transport")
}
