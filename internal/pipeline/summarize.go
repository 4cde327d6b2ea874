package pipeline

import (
	"context"
	"errors"
)

var ErrNoSummary = errors.New("model returned no summary")

// RuntimeSummarizer summarizes text with a seq2seq model on a Runtime.
type RuntimeSummarizer struct {
	runtime *Runtime
	model   string
}

func NewRuntimeSummarizer(runtime *Runtime, model string) *RuntimeSummarizer {
	return &RuntimeSummarizer{runtime: runtime, model: model}
}

func (s *RuntimeSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	payload := map[string]interface{}{
		"inputs":     text,
		"parameters": opts,
	}

	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := s.runtime.Invoke(ctx, s.model, payload, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", ErrNoSummary
	}
	return out[0].SummaryText, nil
}
