package client

import "time"

// Timeouts bound each operation on the client side. The service itself
// never times out a request.
type Timeouts struct {
	QA        time.Duration
	Summarize time.Duration
	OCR       time.Duration
	Health    time.Duration
}

var DefaultTimeouts = Timeouts{
	QA:        30 * time.Second,
	Summarize: 60 * time.Second,
	OCR:       120 * time.Second,
	Health:    5 * time.Second,
}

// withDefaults fills zero timeouts from DefaultTimeouts.
func (t Timeouts) withDefaults() Timeouts {
	if t.QA <= 0 {
		t.QA = DefaultTimeouts.QA
	}
	if t.Summarize <= 0 {
		t.Summarize = DefaultTimeouts.Summarize
	}
	if t.OCR <= 0 {
		t.OCR = DefaultTimeouts.OCR
	}
	if t.Health <= 0 {
		t.Health = DefaultTimeouts.Health
	}
	return t
}

type QARequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

type QAResponse struct {
	Answer string `json:"answer"`
}

type SummarizeRequest struct {
	Text string `json:"text"`
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

// HealthStatus is the reply on {prefix}.health and the heartbeat payload.
type HealthStatus struct {
	Service      string    `json:"service"`
	InstanceID   string    `json:"instance_id"`
	Hostname     string    `json:"hostname,omitempty"`
	Status       string    `json:"status"`
	LastActivity time.Time `json:"last_activity"`
	Endpoint     string    `json:"endpoint"`
	NATSPrefix   string    `json:"nats_prefix"`
	Version      string    `json:"version"`
	Stats        struct {
		InFlight    int64 `json:"in_flight"`
		Total       int64 `json:"total"`
		Failed      int64 `json:"failed"`
		LogFailures int64 `json:"log_failures"`
	} `json:"stats"`
}
