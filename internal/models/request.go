package models

import (
	"math"
	"time"
)

// QARequest is the body of a question answering call. Pointers let the
// service tell a missing key from an empty string.
type QARequest struct {
	Context  *string `json:"context"`
	Question *string `json:"question"`
}

type QAResponse struct {
	Answer string `json:"answer"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type OCRResponse struct {
	ExtractedText string `json:"extracted_text"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// LogEvent is one line of the request log. Per-endpoint fields are
// pointers so that zero values are still written while fields of other
// endpoints are omitted.
type LogEvent struct {
	ReqID     string    `json:"req_id"`
	Timestamp time.Time `json:"ts"`
	TraceID   string    `json:"trace_id,omitempty"`
	Source    string    `json:"source"`
	Endpoint  string    `json:"endpoint"`

	// /qa
	Question      *string `json:"question,omitempty"`
	ContextLength *int    `json:"context_length,omitempty"`
	Answer        *string `json:"answer,omitempty"`

	// /summarize
	InputLength *int    `json:"input_length,omitempty"`
	Summary     *string `json:"summary,omitempty"`

	// /hw-eval
	FileSize   *int `json:"file_size,omitempty"`
	TextLength *int `json:"text_length,omitempty"`

	Error   string  `json:"error,omitempty"`
	Latency float64 `json:"latency"`
	Success bool    `json:"success"`
}

// LatencySeconds rounds a duration to seconds with four decimals.
func LatencySeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1e4) / 1e4
}

func IntPtr(v int) *int { return &v }

func StrPtr(v string) *string { return &v }
