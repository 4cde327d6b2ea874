package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNoAnswer = errors.New("model returned no answer")

// RuntimeQA answers questions with an extractive QA model on a Runtime.
type RuntimeQA struct {
	runtime *Runtime
	model   string
}

func NewRuntimeQA(runtime *Runtime, model string) *RuntimeQA {
	return &RuntimeQA{runtime: runtime, model: model}
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

func (q *RuntimeQA) Answer(ctx context.Context, question, passage string) (Answer, error) {
	payload := map[string]interface{}{
		"inputs": qaInputs{Question: question, Context: passage},
	}

	var raw json.RawMessage
	if err := q.runtime.Invoke(ctx, q.model, payload, &raw); err != nil {
		return Answer{}, err
	}

	// Some runtimes wrap the top answer in a one element list.
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var answers []Answer
		if err := json.Unmarshal(raw, &answers); err != nil {
			return Answer{}, fmt.Errorf("decode answers: %w", err)
		}
		if len(answers) == 0 {
			return Answer{}, ErrNoAnswer
		}
		return answers[0], nil
	}

	var ans Answer
	if err := json.Unmarshal(raw, &ans); err != nil {
		return Answer{}, fmt.Errorf("decode answer: %w", err)
	}
	return ans, nil
}
