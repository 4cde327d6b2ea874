package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "deepset/roberta-base-squad2", cfg.QAModel)
	assert.Equal(t, "facebook/bart-large-cnn", cfg.SummaryModel)
	assert.Equal(t, "models/qa-finetuned", cfg.FineTunedQAPath)
	assert.Equal(t, "logs/requests.log", cfg.LogPath)
	assert.Equal(t, []string{"eng"}, cfg.OCRLanguages)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Empty(t, cfg.NatsURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("MODEL_RUNTIME_URL", "http://runtime.local/")
	t.Setenv("OCR_LANGUAGES", "eng, deu,,")
	t.Setenv("HEARTBEAT_INTERVAL", "not-a-duration")
	t.Setenv("MAX_UPLOAD_MB", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "http://runtime.local", cfg.RuntimeURL)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCRLanguages)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, int64(4<<20), cfg.MaxUploadBytes)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# comment\nQA_MODEL=my-org/squad-tiny\nLOG_PATH=" + filepath.Join(dir, "req.log") + "\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	t.Setenv("QA_MODEL", "")
	t.Setenv("LOG_PATH", "")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "my-org/squad-tiny", cfg.QAModel)
	assert.Equal(t, filepath.Join(dir, "req.log"), cfg.LogPath)
}

func TestLoadMissingEnvFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
}
