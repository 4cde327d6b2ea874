package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aigoflow/assistant-service/internal/webui"
	"github.com/aigoflow/assistant-service/pkg/client"
)

func main() {
	configPath := flag.String("config", "", "Path to client.yaml")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	factory := webui.HTTPFactory(cfg.Timeouts.client())
	if cfg.Transport == "nats" {
		nc, err := client.NewNATSClient(cfg.NATS.URL, cfg.NATS.Prefix, cfg.Timeouts.client())
		if err != nil {
			slog.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		// Every submission goes over NATS; the URL field is ignored.
		factory = func(string) client.AssistantClient { return nc }
	}

	engine := webui.NewEngine(webui.NewHandler(factory, cfg.BackendURL))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Client app starting",
			"addr", cfg.Addr,
			"backend_url", cfg.BackendURL,
			"transport", cfg.Transport)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Client app failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down client app")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
