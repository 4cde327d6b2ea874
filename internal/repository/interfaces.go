package repository

import (
	"context"

	"github.com/aigoflow/assistant-service/internal/models"
	"github.com/aigoflow/assistant-service/internal/store"
)

// Repository aggregates all repository interfaces
type Repository interface {
	Request() RequestRepositoryInterface
	Event() EventRepositoryInterface
}

// RequestRepositoryInterface appends request log events. Implementations
// must be safe for concurrent use and write each event as one line.
type RequestRepositoryInterface interface {
	LogRequest(ctx context.Context, ev *models.LogEvent) error
}

// EventRepositoryInterface defines lifecycle event logging operations
type EventRepositoryInterface interface {
	LogEvent(ctx context.Context, level, code, msg string, meta map[string]interface{}) error
	RecentEvents(ctx context.Context, limit int) ([]store.EventRow, error)
}
