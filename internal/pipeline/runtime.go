package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Runtime talks to a model runtime exposing the Hugging Face inference
// API shape: POST {base}/models/{model} with an "inputs" payload.
type Runtime struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRuntime builds a runtime client. A zero timeout leaves requests
// bounded only by the caller's context.
func NewRuntime(baseURL, token string, timeout time.Duration) *Runtime {
	return &Runtime{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        32,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (r *Runtime) ModelURL(model string) string {
	segments := strings.Split(model, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return r.baseURL + "/models/" + strings.Join(segments, "/")
}

// RuntimeError is a non-200 reply from the model runtime.
type RuntimeError struct {
	StatusCode int
	Message    string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("model runtime returned status %d: %s", e.StatusCode, e.Message)
}

// Invoke posts payload to the model endpoint and decodes the reply into out.
func (r *Runtime) Invoke(ctx context.Context, model string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.ModelURL(model), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("call model runtime: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RuntimeError{StatusCode: resp.StatusCode, Message: runtimeMessage(data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

// runtimeMessage extracts {"error": "..."} when present.
func runtimeMessage(data []byte) string {
	var parsed struct {
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != nil {
		switch v := parsed.Error.(type) {
		case string:
			return v
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			return strings.Join(parts, "; ")
		}
	}
	return strings.TrimSpace(string(data))
}
