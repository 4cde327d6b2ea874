package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"

	"github.com/aigoflow/assistant-service/internal/capabilities"
	"github.com/aigoflow/assistant-service/internal/config"
)

const serviceVersion = "1.0.0"

type HealthService struct {
	instanceID   string
	hostname     string
	nats         *nats.Conn
	config       *config.Config
	capabilities []capabilities.Capability
	stats        *Stats
}

// HealthStatus is the health reply and heartbeat payload. InstanceID is
// unique per process, so replicas sharing an endpoint stay apart.
type HealthStatus struct {
	Service      string                    `json:"service"`
	InstanceID   string                    `json:"instance_id"`
	Hostname     string                    `json:"hostname,omitempty"`
	Status       string                    `json:"status"` // online, busy
	LastActivity time.Time                 `json:"last_activity"`
	Capabilities []capabilities.Capability `json:"capabilities"`
	Endpoint     string                    `json:"endpoint"`
	NATSPrefix   string                    `json:"nats_prefix"`
	Version      string                    `json:"version"`
	Stats        StatsSnapshot             `json:"stats"`
}

func NewHealthService(natsConn *nats.Conn, cfg *config.Config, caps []capabilities.Capability, stats *Stats) *HealthService {
	hostname, err := os.Hostname()
	if err != nil {
		slog.Debug("Hostname unavailable", "error", err)
	}
	return &HealthService{
		instanceID:   ulid.Make().String(),
		hostname:     hostname,
		nats:         natsConn,
		config:       cfg,
		capabilities: caps,
		stats:        stats,
	}
}

func (h *HealthService) Start(ctx context.Context) error {
	healthTopic := Subject(h.config.NatsPrefix, "health")

	sub, err := h.nats.Subscribe(healthTopic, func(msg *nats.Msg) {
		statusData, err := json.Marshal(h.Status())
		if err != nil {
			slog.Error("Failed to marshal health status", "error", err)
			return
		}
		if err := msg.Respond(statusData); err != nil {
			slog.Error("Failed to respond to health check", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to health topic: %w", err)
	}
	defer sub.Unsubscribe()

	slog.Info("Health service started", "topic", healthTopic, "interval", h.config.HeartbeatInterval)

	h.publishHeartbeats(ctx)
	return nil
}

func (h *HealthService) publishHeartbeats(ctx context.Context) {
	interval := h.config.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	heartbeatTopic := Subject(h.config.NatsPrefix, "heartbeat")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := h.Status()
			statusData, err := json.Marshal(status)
			if err != nil {
				continue
			}
			if err := h.nats.Publish(heartbeatTopic, statusData); err != nil {
				slog.Warn("Failed to publish heartbeat", "error", err)
			}
			if status.Stats.LogFailures > 0 {
				slog.Warn("Request log writes are failing", "log_failures", status.Stats.LogFailures)
			}
		}
	}
}

// Status reports liveness, served capabilities and request counters.
func (h *HealthService) Status() HealthStatus {
	snap := h.stats.Snapshot()
	last := snap.LastActivity
	if last.IsZero() {
		last = time.Now().UTC()
	}
	return HealthStatus{
		Service:      "assistant-service",
		InstanceID:   h.instanceID,
		Hostname:     h.hostname,
		Status:       h.stats.Status(),
		LastActivity: last,
		Capabilities: h.capabilities,
		Endpoint:     fmt.Sprintf("http://localhost%s", h.config.HTTPAddr),
		NATSPrefix:   h.config.NatsPrefix,
		Version:      serviceVersion,
		Stats:        snap,
	}
}
