package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/aigoflow/assistant-service/pkg/client"
)

// instance is the last known state of one service process.
type instance struct {
	client.HealthStatus
	FirstSeen time.Time
	LastSeen  time.Time
}

// tracker keeps heartbeats keyed by instance and drops instances that
// stopped reporting. Replicas share an endpoint when they run with the
// same HTTP_ADDR, so the endpoint alone is not a key.
type tracker struct {
	mu        sync.RWMutex
	instances map[string]*instance
	staleness time.Duration
}

func newTracker(staleness time.Duration) *tracker {
	return &tracker{instances: make(map[string]*instance), staleness: staleness}
}

func (t *tracker) observe(status client.HealthStatus, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := instanceKey(status)
	if existing, ok := t.instances[key]; ok {
		existing.HealthStatus = status
		existing.LastSeen = now
		return
	}
	t.instances[key] = &instance{HealthStatus: status, FirstSeen: now, LastSeen: now}
	slog.Info("New service instance",
		"instance_id", key,
		"hostname", status.Hostname,
		"endpoint", status.Endpoint,
		"version", status.Version)
}

// instanceKey falls back to the endpoint for services that predate
// instance IDs.
func instanceKey(status client.HealthStatus) string {
	if status.InstanceID != "" {
		return status.InstanceID
	}
	return status.Endpoint
}

func (t *tracker) prune(now time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var removed []string
	for key, inst := range t.instances {
		if now.Sub(inst.LastSeen) > t.staleness {
			delete(t.instances, key)
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	return removed
}

func (t *tracker) snapshot() []instance {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]instance, 0, len(t.instances))
	for _, inst := range t.instances {
		out = append(out, *inst)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return instanceKey(out[i].HealthStatus) < instanceKey(out[j].HealthStatus)
	})
	return out
}

func (t *tracker) print(w io.Writer, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTANCE\tHOST\tENDPOINT\tSTATUS\tIN FLIGHT\tTOTAL\tFAILED\tLOG FAILURES\tLAST SEEN")
	for _, inst := range t.snapshot() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s ago\n",
			instanceKey(inst.HealthStatus),
			inst.Hostname,
			inst.Endpoint,
			inst.Status,
			inst.Stats.InFlight,
			inst.Stats.Total,
			inst.Stats.Failed,
			inst.Stats.LogFailures,
			now.Sub(inst.LastSeen).Truncate(time.Second))
	}
	tw.Flush()
}

func main() {
	natsURL := flag.String("nats", "nats://127.0.0.1:4222", "NATS server URL")
	prefix := flag.String("prefix", "assistant", "Subject prefix of the assistant service")
	interval := flag.Duration("interval", 30*time.Second, "Table refresh interval")
	stale := flag.Duration("stale", 90*time.Second, "Drop instances silent for this long")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	nc, err := client.NewNATSClient(*natsURL, *prefix, client.DefaultTimeouts)
	if err != nil {
		slog.Error("Failed to connect", "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	t := newTracker(*stale)

	// One instance in the queue group answers the probe; the rest show up
	// with their next heartbeat.
	if status, err := nc.Status(ctx); err != nil {
		slog.Warn("Initial health probe failed", "error", err)
	} else {
		t.observe(*status, time.Now())
	}

	go func() {
		if err := nc.Heartbeats(ctx, func(subject string, status client.HealthStatus) {
			t.observe(status, time.Now())
		}); err != nil {
			slog.Error("Heartbeat subscription failed", "error", err)
			cancel()
		}
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, id := range t.prune(now) {
				slog.Warn("Service instance went silent", "instance_id", id)
			}
			t.print(os.Stdout, now)
		}
	}
}
