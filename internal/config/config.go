package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Configuration
	HTTPAddr       string
	MaxUploadBytes int64

	// Model Runtime Configuration
	RuntimeURL     string
	RuntimeToken   string
	RuntimeTimeout time.Duration
	QAModel        string
	SummaryModel   string

	// Fine-tuned QA override
	FineTunedQAPath       string
	FineTunedQARuntimeURL string

	// OCR Configuration
	OCRLanguages []string

	// NATS Configuration (disabled when NatsURL is empty)
	NatsURL           string
	NatsPrefix        string
	QueueGroup        string
	HeartbeatInterval time.Duration

	// Persistence
	LogPath string
	DBPath  string

	LogLevel slog.Level
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			slog.Warn("Could not load env file", "file", envFile, "error", err)
		} else {
			slog.Info("Environment loaded", "file", envFile)
		}
	}

	return &Config{
		HTTPAddr:              getEnv("HTTP_ADDR", ":8000"),
		MaxUploadBytes:        int64(getEnvInt("MAX_UPLOAD_MB", 32)) << 20,
		RuntimeURL:            strings.TrimRight(getEnv("MODEL_RUNTIME_URL", "https://api-inference.huggingface.co"), "/"),
		RuntimeToken:          getEnv("MODEL_RUNTIME_TOKEN", ""),
		RuntimeTimeout:        getEnvDuration("MODEL_RUNTIME_TIMEOUT", "0s"),
		QAModel:               getEnv("QA_MODEL", "deepset/roberta-base-squad2"),
		SummaryModel:          getEnv("SUMMARY_MODEL", "facebook/bart-large-cnn"),
		FineTunedQAPath:       getEnv("QA_FINETUNED_PATH", "models/qa-finetuned"),
		FineTunedQARuntimeURL: strings.TrimRight(getEnv("QA_FINETUNED_RUNTIME_URL", "http://127.0.0.1:8090"), "/"),
		OCRLanguages:          getEnvList("OCR_LANGUAGES", "eng"),
		NatsURL:               getEnv("NATS_URL", ""),
		NatsPrefix:            getEnv("NATS_PREFIX", "assistant"),
		QueueGroup:            getEnv("NATS_QUEUE_GROUP", "workers"),
		HeartbeatInterval:     getEnvDuration("HEARTBEAT_INTERVAL", "30s"),
		LogPath:               getEnv("LOG_PATH", "logs/requests.log"),
		DBPath:                getEnv("DB_PATH", "data/events.sqlite"),
		LogLevel:              getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key, defaultVal string) time.Duration {
	val := getEnv(key, defaultVal)
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	d, _ := time.ParseDuration(defaultVal)
	return d
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key, defaultVal string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultVal), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(val)); err != nil {
		return defaultVal
	}
	return lvl
}
