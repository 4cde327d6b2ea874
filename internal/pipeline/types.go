// Package pipeline holds the model handles the service calls into. The
// handles are built once at startup and only read afterwards, so they are
// shared across concurrent requests.
package pipeline

import "context"

// Answer is the top span a question answering model extracted.
type Answer struct {
	Text  string  `json:"answer"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

type QuestionAnswerer interface {
	Answer(ctx context.Context, question, passage string) (Answer, error)
}

// SummaryOptions bound the generated summary length in tokens.
type SummaryOptions struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error)
}

const (
	SourceFineTuned  = "fine-tuned"
	SourcePretrained = "pretrained"
)

// ModelInfo describes which model backs a handle.
type ModelInfo struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Endpoint string `json:"endpoint"`
}

// Handles is the immutable set of model capabilities selected at startup.
type Handles struct {
	QA           QuestionAnswerer
	Summarizer   Summarizer
	QAModel      ModelInfo
	SummaryModel ModelInfo
}
