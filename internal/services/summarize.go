package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/aigoflow/assistant-service/internal/models"
	"github.com/aigoflow/assistant-service/internal/pipeline"
	"github.com/aigoflow/assistant-service/internal/repository"
)

// DefaultSummaryOptions are fixed for every request: deterministic
// decoding between 30 and 120 tokens.
var DefaultSummaryOptions = pipeline.SummaryOptions{
	MaxLength: 120,
	MinLength: 30,
	DoSample:  false,
}

// summaryTextKeys is the lookup order for the text to summarize.
var summaryTextKeys = []string{"text", "context"}

// ResolveSummaryText returns the value of the first key present, "text"
// then "context", or "" when neither is present. A present key that does
// not hold a string, null included, is an error rather than a reason to
// fall back.
func ResolveSummaryText(fields map[string]interface{}) (string, error) {
	for _, key := range summaryTextKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("%s must be a string", key)
		}
		return v, nil
	}
	return "", nil
}

type SummarizeService struct {
	summarizer pipeline.Summarizer
	log        recorder
}

func NewSummarizeService(summarizer pipeline.Summarizer, repo repository.Repository, stats *Stats) *SummarizeService {
	return &SummarizeService{summarizer: summarizer, log: recorder{repo: repo, stats: stats}}
}

func (s *SummarizeService) SummarizeJSON(ctx context.Context, body []byte, meta RequestMeta) *models.SummarizeResponse {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return s.summarize(ctx, "", fmt.Errorf("invalid request body: %w", err), meta)
	}
	text, err := ResolveSummaryText(fields)
	return s.summarize(ctx, text, err, meta)
}

func (s *SummarizeService) Summarize(ctx context.Context, fields map[string]interface{}, meta RequestMeta) *models.SummarizeResponse {
	text, err := ResolveSummaryText(fields)
	return s.summarize(ctx, text, err, meta)
}

func (s *SummarizeService) summarize(ctx context.Context, text string, err error, meta RequestMeta) *models.SummarizeResponse {
	start := s.log.begin()

	var summary string
	if err == nil {
		summary, err = s.invoke(ctx, text)
	}
	if err != nil {
		slog.Warn("Summarization failed", "req_id", meta.ReqID, "error", err)
		summary = errorText(err)
	}

	s.log.record(ctx, meta, start, &models.LogEvent{
		Endpoint:    "/summarize",
		InputLength: models.IntPtr(utf8.RuneCountInString(text)),
		Summary:     models.StrPtr(summary),
		Success:     err == nil,
	})
	return &models.SummarizeResponse{Summary: summary}
}

func (s *SummarizeService) invoke(ctx context.Context, text string) (summary string, err error) {
	defer recoverError(&err)
	return s.summarizer.Summarize(ctx, text, DefaultSummaryOptions)
}
