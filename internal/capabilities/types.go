package capabilities

import "github.com/aigoflow/assistant-service/internal/pipeline"

// CapabilityType represents the operations this service exposes
type CapabilityType string

const (
	CapabilityQuestionAnswering CapabilityType = "question-answering"
	CapabilitySummarization     CapabilityType = "summarization"
	CapabilityHandwritingOCR    CapabilityType = "handwriting-ocr"
)

// Capability represents a served operation and the model behind it
type Capability struct {
	Type       CapabilityType         `json:"type"`
	Endpoint   string                 `json:"endpoint"`
	Model      string                 `json:"model"`
	Source     string                 `json:"source,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Describe lists the capabilities backed by the loaded handles.
func Describe(h *pipeline.Handles, summary pipeline.SummaryOptions, ocrEngine string) []Capability {
	return []Capability{
		{
			Type:     CapabilityQuestionAnswering,
			Endpoint: "/qa",
			Model:    h.QAModel.Name,
			Source:   h.QAModel.Source,
		},
		{
			Type:     CapabilitySummarization,
			Endpoint: "/summarize",
			Model:    h.SummaryModel.Name,
			Source:   h.SummaryModel.Source,
			Parameters: map[string]interface{}{
				"max_length": summary.MaxLength,
				"min_length": summary.MinLength,
				"do_sample":  summary.DoSample,
			},
		},
		{
			Type:     CapabilityHandwritingOCR,
			Endpoint: "/hw-eval",
			Model:    ocrEngine,
		},
	}
}

// Strings returns the capability type names.
func Strings(caps []Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c.Type)
	}
	return out
}
