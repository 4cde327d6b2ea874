package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aigoflow/assistant-service/internal/repository"
	"github.com/aigoflow/assistant-service/internal/services"
	"github.com/aigoflow/assistant-service/internal/store"
)

// ErrNoUpload is reported when /hw-eval carries no "file" part.
var ErrNoUpload = errors.New("no file uploaded")

type AssistantHandler struct {
	qa          *services.QAService
	summarize   *services.SummarizeService
	handwriting *services.HandwritingService
	events      repository.EventRepositoryInterface
	maxUpload   int64
}

func NewAssistantHandler(qa *services.QAService, summarize *services.SummarizeService, handwriting *services.HandwritingService, events repository.EventRepositoryInterface, maxUpload int64) *AssistantHandler {
	return &AssistantHandler{
		qa:          qa,
		summarize:   summarize,
		handwriting: handwriting,
		events:      events,
		maxUpload:   maxUpload,
	}
}

func (h *AssistantHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /qa", h.handleQA)
	mux.HandleFunc("POST /summarize", h.handleSummarize)
	mux.HandleFunc("POST /hw-eval", h.handleHandwriting)
	mux.HandleFunc("GET /events", h.handleEvents)
}

func (h *AssistantHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// Every operation answers 200; failures travel inside the body as
// "Error: ..." strings.

func (h *AssistantHandler) handleQA(w http.ResponseWriter, r *http.Request) {
	meta := requestMeta(r)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Warn("Failed to read request body", "req_id", meta.ReqID, "error", err)
	}
	writeJSON(w, h.qa.AnswerJSON(r.Context(), body, meta))
}

func (h *AssistantHandler) handleSummarize(w http.ResponseWriter, r *http.Request) {
	meta := requestMeta(r)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Warn("Failed to read request body", "req_id", meta.ReqID, "error", err)
	}
	writeJSON(w, h.summarize.SummarizeJSON(r.Context(), body, meta))
}

func (h *AssistantHandler) handleHandwriting(w http.ResponseWriter, r *http.Request) {
	meta := requestMeta(r)

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, h.handwriting.Reject(r.Context(), fmt.Errorf("invalid upload: %w", err), meta))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, h.handwriting.Reject(r.Context(), ErrNoUpload, meta))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, h.handwriting.Reject(r.Context(), fmt.Errorf("read upload: %w", err), meta))
		return
	}
	slog.Debug("Upload received", "req_id", meta.ReqID, "filename", header.Filename, "size", len(data))
	writeJSON(w, h.handwriting.Extract(r.Context(), data, meta))
}

func (h *AssistantHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.events.RecentEvents(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get events: %v", err), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []store.EventRow{}
	}
	writeJSON(w, events)
}

func requestMeta(r *http.Request) services.RequestMeta {
	return services.NewRequestMeta(services.SourceHTTP, r.Header.Get("X-Trace-ID"))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
