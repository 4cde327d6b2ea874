package repository

import (
	"context"

	"github.com/aigoflow/assistant-service/internal/store"
)

// FileRepository keeps request events in an NDJSON file and lifecycle
// events in SQLite.
type FileRepository struct {
	requestRepo RequestRepositoryInterface
	eventRepo   EventRepositoryInterface
}

func NewRepository(db *store.DB, logPath string) Repository {
	var eventRepo EventRepositoryInterface = discardEventRepository{}
	if db != nil {
		eventRepo = &SQLiteEventRepository{db: db}
	}
	return &FileRepository{
		requestRepo: NewJSONLRequestRepository(logPath),
		eventRepo:   eventRepo,
	}
}

func (r *FileRepository) Request() RequestRepositoryInterface {
	return r.requestRepo
}

func (r *FileRepository) Event() EventRepositoryInterface {
	return r.eventRepo
}

// SQLiteEventRepository handles lifecycle event logging
type SQLiteEventRepository struct {
	db *store.DB
}

func (r *SQLiteEventRepository) LogEvent(ctx context.Context, level, code, msg string, meta map[string]interface{}) error {
	return r.db.Event(level, code, msg, meta)
}

func (r *SQLiteEventRepository) RecentEvents(ctx context.Context, limit int) ([]store.EventRow, error) {
	return r.db.RecentEvents(limit)
}

// discardEventRepository is used when the event store could not be opened.
type discardEventRepository struct{}

func (discardEventRepository) LogEvent(context.Context, string, string, string, map[string]interface{}) error {
	return nil
}

func (discardEventRepository) RecentEvents(context.Context, int) ([]store.EventRow, error) {
	return nil, nil
}
