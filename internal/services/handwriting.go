package services

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/aigoflow/assistant-service/internal/models"
	"github.com/aigoflow/assistant-service/internal/ocr"
	"github.com/aigoflow/assistant-service/internal/repository"
)

type HandwritingService struct {
	engine ocr.Engine
	log    recorder
}

func NewHandwritingService(engine ocr.Engine, repo repository.Repository, stats *Stats) *HandwritingService {
	return &HandwritingService{engine: engine, log: recorder{repo: repo, stats: stats}}
}

// Extract decodes data as an image and runs OCR on it.
func (s *HandwritingService) Extract(ctx context.Context, data []byte, meta RequestMeta) *models.OCRResponse {
	return s.extract(ctx, data, nil, meta)
}

// Reject records an upload that never produced image bytes, such as a
// missing form field.
func (s *HandwritingService) Reject(ctx context.Context, cause error, meta RequestMeta) *models.OCRResponse {
	return s.extract(ctx, nil, cause, meta)
}

func (s *HandwritingService) extract(ctx context.Context, data []byte, err error, meta RequestMeta) *models.OCRResponse {
	start := s.log.begin()

	var text string
	if err == nil {
		text, err = s.invoke(ctx, data)
	}

	ev := &models.LogEvent{
		Endpoint:   "/hw-eval",
		FileSize:   models.IntPtr(len(data)),
		TextLength: models.IntPtr(utf8.RuneCountInString(text)),
		Success:    err == nil,
	}
	if err != nil {
		slog.Warn("Handwriting OCR failed", "req_id", meta.ReqID, "file_size", len(data), "error", err)
		// The message goes to the error field; no text was extracted.
		text = errorText(err)
		ev.TextLength = models.IntPtr(0)
		ev.Error = err.Error()
	}

	s.log.record(ctx, meta, start, ev)
	return &models.OCRResponse{ExtractedText: text}
}

func (s *HandwritingService) invoke(ctx context.Context, data []byte) (text string, err error) {
	defer recoverError(&err)

	img, format, err := ocr.Decode(data)
	if err != nil {
		return "", err
	}
	slog.Debug("Decoded upload", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return s.engine.Recognize(ctx, ocr.Normalize(img))
}
