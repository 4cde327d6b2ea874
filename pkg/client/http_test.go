package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientOperations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_, _ = io.WriteString(w, `{"status":"ok"}`)
		case "/qa":
			var req QARequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Paris is in France.", req.Context)
			_, _ = io.WriteString(w, `{"answer":"France"}`)
		case "/summarize":
			var req map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "long text", req["text"])
			_, _ = io.WriteString(w, `{"summary":"short"}`)
		case "/hw-eval":
			file, header, err := r.FormFile("file")
			if !assert.NoError(t, err) {
				return
			}
			defer file.Close()
			data, _ := io.ReadAll(file)
			assert.Equal(t, "page.png", header.Filename)
			assert.Equal(t, []byte{1, 2, 3}, data)
			_, _ = io.WriteString(w, `{"extracted_text":"Error: cannot identify image file"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", Timeouts{})
	defer c.Close()
	ctx := context.Background()

	status, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", status)

	answer, err := c.QA(ctx, "Paris is in France.", "Where is Paris?")
	require.NoError(t, err)
	assert.Equal(t, "France", answer)

	summary, err := c.Summarize(ctx, "long text")
	require.NoError(t, err)
	assert.Equal(t, "short", summary)

	// Service-side failures are values, not errors.
	text, err := c.HandwritingEval(ctx, "page.png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Error:"))
}

func TestHTTPClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPClient(srv.URL, Timeouts{QA: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.QA(context.Background(), "c", "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPClientTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/summarize" {
			_, _ = io.WriteString(w, "<html>proxy error</html>")
			return
		}
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	url := srv.URL
	defer srv.Close()

	c := NewHTTPClient(url, DefaultTimeouts)

	_, err := c.Summarize(context.Background(), "x")
	assert.ErrorContains(t, err, "failed to parse response")

	_, err = c.QA(context.Background(), "c", "q")
	assert.ErrorContains(t, err, "unexpected status 502")

	refused := NewHTTPClient("http://127.0.0.1:1", DefaultTimeouts)
	_, err = refused.Health(context.Background())
	assert.Error(t, err)
}

func TestTimeoutsWithDefaults(t *testing.T) {
	got := Timeouts{QA: time.Second}.withDefaults()
	assert.Equal(t, time.Second, got.QA)
	assert.Equal(t, 60*time.Second, got.Summarize)
	assert.Equal(t, 120*time.Second, got.OCR)
	assert.Equal(t, 5*time.Second, got.Health)
}
