package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aigoflow/assistant-service/pkg/client"
)

type Config struct {
	Addr       string         `mapstructure:"addr"`
	BackendURL string         `mapstructure:"backend_url"`
	Transport  string         `mapstructure:"transport"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Timeouts   TimeoutsConfig `mapstructure:"timeouts"`
	LogLevel   string         `mapstructure:"log_level"`
}

type NATSConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type TimeoutsConfig struct {
	QA        time.Duration `mapstructure:"qa"`
	Summarize time.Duration `mapstructure:"summarize"`
	OCR       time.Duration `mapstructure:"ocr"`
	Health    time.Duration `mapstructure:"health"`
}

func (t TimeoutsConfig) client() client.Timeouts {
	return client.Timeouts{QA: t.QA, Summarize: t.Summarize, OCR: t.OCR, Health: t.Health}
}

// loadConfig reads client.yaml from configPath (or ./ and ./config when
// empty). A missing file is fine; environment variables override it.
func loadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8501")
	v.SetDefault("backend_url", "http://localhost:8000")
	v.SetDefault("transport", "http")
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.prefix", "assistant")
	v.SetDefault("timeouts.qa", client.DefaultTimeouts.QA)
	v.SetDefault("timeouts.summarize", client.DefaultTimeouts.Summarize)
	v.SetDefault("timeouts.ocr", client.DefaultTimeouts.OCR)
	v.SetDefault("timeouts.health", client.DefaultTimeouts.Health)
	v.SetDefault("log_level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("addr", "CLIENT_ADDR")
	_ = v.BindEnv("transport", "CLIENT_TRANSPORT")
	_ = v.BindEnv("nats.url", "NATS_URL")
	_ = v.BindEnv("nats.prefix", "NATS_PREFIX")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("client")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read client config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode client config: %w", err)
	}
	cfg.Transport = strings.ToLower(cfg.Transport)
	if cfg.Transport != "http" && cfg.Transport != "nats" {
		return nil, fmt.Errorf("unknown transport %q, expected http or nats", cfg.Transport)
	}
	return &cfg, nil
}
