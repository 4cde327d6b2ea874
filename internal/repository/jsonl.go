package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aigoflow/assistant-service/internal/models"
)

// JSONLRequestRepository appends request log events to a newline
// delimited JSON file. The file is opened per append so a removed or
// rotated file is recreated on the next request.
type JSONLRequestRepository struct {
	path string
	mu   sync.Mutex
}

func NewJSONLRequestRepository(path string) *JSONLRequestRepository {
	// Best effort; a failure here shows up on the first append instead.
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	return &JSONLRequestRepository{path: path}
}

func (r *JSONLRequestRepository) Path() string {
	return r.path
}

func (r *JSONLRequestRepository) LogRequest(ctx context.Context, ev *models.LogEvent) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open request log: %w", err)
	}
	// One write per line keeps lines whole under O_APPEND, also across processes.
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write request log: %w", err)
	}
	return f.Close()
}
