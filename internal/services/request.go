package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/aigoflow/assistant-service/internal/models"
	"github.com/aigoflow/assistant-service/internal/repository"
)

const (
	SourceHTTP = "http"
	SourceNATS = "nats"
)

// RequestMeta identifies one request across the process log and the
// request log.
type RequestMeta struct {
	ReqID   string
	TraceID string
	Source  string
}

func NewRequestMeta(source, traceID string) RequestMeta {
	return RequestMeta{
		ReqID:   ulid.Make().String(),
		TraceID: traceID,
		Source:  source,
	}
}

// errorText is the only failure shape callers ever see.
func errorText(err error) string {
	return "Error: " + err.Error()
}

// recoverError turns a panic inside a model call into an error.
func recoverError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pipeline panic: %v", r)
	}
}

// recorder appends request log events. Write failures are counted and
// otherwise dropped; they never change the response.
type recorder struct {
	repo  repository.Repository
	stats *Stats
}

func (r recorder) begin() time.Time {
	r.stats.Begin()
	return time.Now()
}

func (r recorder) record(ctx context.Context, meta RequestMeta, start time.Time, ev *models.LogEvent) {
	ev.ReqID = meta.ReqID
	ev.TraceID = meta.TraceID
	ev.Source = meta.Source
	ev.Timestamp = start.UTC()
	ev.Latency = models.LatencySeconds(time.Since(start))
	r.stats.End(ev.Success)

	if err := r.repo.Request().LogRequest(ctx, ev); err != nil {
		r.stats.LogFailure()
		slog.Debug("Request log write failed", "req_id", meta.ReqID, "error", err)
	}
}
