package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aigoflow/assistant-service/internal/capabilities"
	"github.com/aigoflow/assistant-service/internal/config"
	"github.com/aigoflow/assistant-service/internal/handlers"
	"github.com/aigoflow/assistant-service/internal/ocr/tesseract"
	"github.com/aigoflow/assistant-service/internal/pipeline"
	"github.com/aigoflow/assistant-service/internal/repository"
	"github.com/aigoflow/assistant-service/internal/services"
	"github.com/aigoflow/assistant-service/internal/store"
	"github.com/aigoflow/assistant-service/pkg/server"
)

func main() {
	var envFile = flag.String("env", "", "Optional .env file to load")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// The event store is diagnostics only; the service runs without it.
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Warn("Event store unavailable, lifecycle events will not be persisted", "db_path", cfg.DBPath, "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	repo := repository.NewRepository(db, cfg.LogPath)
	events := repo.Event()
	event := func(level, code, msg string, meta map[string]interface{}) {
		if err := events.LogEvent(context.Background(), level, code, msg, meta); err != nil {
			slog.Debug("Event write failed", "code", code, "error", err)
		}
	}

	event("info", "startup", "Server starting", map[string]interface{}{
		"http_addr": cfg.HTTPAddr,
		"log_path":  cfg.LogPath,
		"db_path":   cfg.DBPath,
	})

	// Select model handles once; nothing reloads them afterwards.
	handles, err := pipeline.Load(cfg)
	if err != nil {
		event("error", "model.failed", "Model selection failed", map[string]interface{}{
			"fine_tuned_path": cfg.FineTunedQAPath,
			"error":           err.Error(),
		})
		slog.Error("Failed to load models", "error", err)
		os.Exit(1)
	}

	event("info", "model.selected", "QA model selected", map[string]interface{}{
		"model":    handles.QAModel.Name,
		"source":   handles.QAModel.Source,
		"endpoint": handles.QAModel.Endpoint,
	})

	engine := tesseract.New(cfg.OCRLanguages...)
	event("info", "model.loaded", "Model handles ready", map[string]interface{}{
		"qa_model":      handles.QAModel.Name,
		"summary_model": handles.SummaryModel.Name,
		"ocr_engine":    engine.Name(),
		"ocr_version":   tesseract.Version(),
		"ocr_languages": cfg.OCRLanguages,
	})

	// Initialize services
	stats := services.NewStats()
	qaService := services.NewQAService(handles.QA, repo, stats)
	summarizeService := services.NewSummarizeService(handles.Summarizer, repo, stats)
	handwritingService := services.NewHandwritingService(engine, repo, stats)
	caps := capabilities.Describe(handles, services.DefaultSummaryOptions, engine.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// NATS transport is optional and only enabled with NATS_URL.
	if cfg.NatsURL != "" {
		natsService, err := services.NewNATSService(cfg, qaService, summarizeService, handwritingService)
		if err != nil {
			event("error", "nats.failed", "NATS service initialization failed", map[string]interface{}{
				"nats_url": cfg.NatsURL,
				"error":    err.Error(),
			})
			slog.Error("Failed to create NATS service, continuing with HTTP only", "error", err)
		} else {
			healthService := services.NewHealthService(natsService.GetConnection(), cfg, caps, stats)

			go func() {
				if err := natsService.Start(ctx); err != nil {
					event("error", "nats.failed", "NATS service failed", map[string]interface{}{
						"error": err.Error(),
					})
					slog.Error("NATS service failed", "error", err)
				}
			}()

			go func() {
				if err := healthService.Start(ctx); err != nil {
					event("error", "health.failed", "Health service failed", map[string]interface{}{
						"error": err.Error(),
					})
					slog.Error("Health service failed", "error", err)
				}
			}()
		}
	}

	handler := handlers.NewAssistantHandler(qaService, summarizeService, handwritingService, events, cfg.MaxUploadBytes)
	httpServer := server.NewServer(cfg.HTTPAddr, handler, caps)

	httpDone := make(chan error, 1)
	go func() {
		httpDone <- httpServer.Start(ctx)
	}()

	go func() {
		select {
		case addr := <-httpServer.Ready():
			event("info", "server.ready", "Server ready to accept requests", map[string]interface{}{
				"http_addr":    addr.String(),
				"capabilities": capabilities.Strings(caps),
				"nats_url":     cfg.NatsURL,
			})
		case <-ctx.Done():
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case s := <-sig:
		slog.Info("Shutting down server", "signal", s.String())
		cancel()
		if err := <-httpDone; err != nil {
			slog.Error("HTTP shutdown failed", "error", err)
			exitCode = 1
		}
	case err := <-httpDone:
		if err != nil {
			event("error", "http.failed", "HTTP server failed", map[string]interface{}{
				"error": err.Error(),
			})
			slog.Error("HTTP server failed", "error", err)
			exitCode = 1
		}
		cancel()
	}

	snap := stats.Snapshot()
	event("info", "shutdown", "Server stopped", map[string]interface{}{
		"requests":     snap.Total,
		"failed":       snap.Failed,
		"log_failures": snap.LogFailures,
	})

	if exitCode != 0 {
		if db != nil {
			db.Close()
		}
		os.Exit(exitCode)
	}
}
