package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// HTTPClient talks to the service's HTTP API.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	timeouts Timeouts
}

func NewHTTPClient(baseURL string, timeouts Timeouts) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		timeouts: timeouts.withDefaults(),
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Health)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}
	var out HealthResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *HTTPClient) QA(ctx context.Context, passage, question string) (string, error) {
	var out QAResponse
	if err := c.postJSON(ctx, c.timeouts.QA, "/qa", QARequest{Context: passage, Question: question}, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func (c *HTTPClient) Summarize(ctx context.Context, text string) (string, error) {
	var out SummarizeResponse
	if err := c.postJSON(ctx, c.timeouts.Summarize, "/summarize", SummarizeRequest{Text: text}, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// HandwritingEval uploads data as the multipart field "file".
func (c *HTTPClient) HandwritingEval(ctx context.Context, filename string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.OCR)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hw-eval", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out OCRResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.ExtractedText, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, timeout time.Duration, path string, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	slog.Debug("Sending assistant request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
