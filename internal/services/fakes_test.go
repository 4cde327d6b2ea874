package services

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/aigoflow/assistant-service/internal/models"
	"github.com/aigoflow/assistant-service/internal/pipeline"
	"github.com/aigoflow/assistant-service/internal/repository"
	"github.com/aigoflow/assistant-service/internal/store"
)

type fakeQA struct {
	answer   pipeline.Answer
	err      error
	panicMsg string

	mu       sync.Mutex
	question string
	passage  string
}

func (f *fakeQA) Answer(ctx context.Context, question, passage string) (pipeline.Answer, error) {
	f.mu.Lock()
	f.question, f.passage = question, passage
	f.mu.Unlock()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.answer, f.err
}

type fakeSummarizer struct {
	summary string
	err     error

	mu   sync.Mutex
	text string
	opts pipeline.SummaryOptions
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, opts pipeline.SummaryOptions) (string, error) {
	f.mu.Lock()
	f.text, f.opts = text, opts
	f.mu.Unlock()
	return f.summary, f.err
}

type fakeEngine struct {
	text string
	err  error

	mu     sync.Mutex
	bounds image.Rectangle
	opaque bool
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, img *image.NRGBA) (string, error) {
	f.mu.Lock()
	f.bounds = img.Bounds()
	f.opaque = img.Opaque()
	f.mu.Unlock()
	return f.text, f.err
}

// memoryRepository keeps request log events in memory.
type memoryRepository struct {
	mu     sync.Mutex
	events []models.LogEvent
	err    error
}

func (m *memoryRepository) Request() repository.RequestRepositoryInterface { return m }
func (m *memoryRepository) Event() repository.EventRepositoryInterface    { return m }

func (m *memoryRepository) LogRequest(ctx context.Context, ev *models.LogEvent) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *ev)
	return nil
}

func (m *memoryRepository) LogEvent(ctx context.Context, level, code, msg string, meta map[string]interface{}) error {
	return nil
}

func (m *memoryRepository) RecentEvents(ctx context.Context, limit int) ([]store.EventRow, error) {
	return nil, nil
}

func (m *memoryRepository) all() []models.LogEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.LogEvent(nil), m.events...)
}

var errBrokenDisk = errors.New("read-only file system")
