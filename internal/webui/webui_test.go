package webui

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aigoflow/assistant-service/pkg/client"
)

type fakeClient struct {
	backend  string
	err      error
	uploaded []byte
}

func (f *fakeClient) Health(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func (f *fakeClient) QA(ctx context.Context, passage, question string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "answer from " + f.backend, nil
}

func (f *fakeClient) Summarize(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Error: input too short", nil
}

func (f *fakeClient) HandwritingEval(ctx context.Context, filename string, data []byte) (string, error) {
	f.uploaded = data
	return "handwritten <words>", f.err
}

func (f *fakeClient) Close() error { return nil }

func newTestEngine(err error) (*gin.Engine, *fakeClient) {
	gin.SetMode(gin.TestMode)
	fake := &fakeClient{err: err}
	factory := func(backendURL string) client.AssistantClient {
		fake.backend = backendURL
		return fake
	}
	return NewEngine(NewHandler(factory, "http://localhost:8000")), fake
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postFile(t *testing.T, r http.Handler, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("backend_url", "http://backend:9000"))
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/hw-eval", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexRendersFormsWithDefaultBackend(t *testing.T) {
	r, fake := newTestEngine(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="http://localhost:8000"`)
	assert.Contains(t, body, `formaction="/qa"`)
	assert.Contains(t, body, `formaction="/summarize"`)
	assert.Contains(t, body, `formaction="/hw-eval"`)
	assert.Contains(t, body, `accept=".png,.jpg,.jpeg"`)
	assert.Contains(t, body, "Backend status: ok")
	assert.Equal(t, "http://localhost:8000", fake.backend)
}

func TestIndexUnreachableBackend(t *testing.T) {
	r, _ := newTestEngine(errors.New("connection refused"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "Backend status: unreachable")
}

func TestQAUsesEditedBackendAndKeepsInputs(t *testing.T) {
	r, fake := newTestEngine(nil)

	w := postForm(r, "/qa", url.Values{
		"backend_url": {"http://gpu-box:8000"},
		"context":     {"Water boils at 100 degrees."},
		"question":    {"When does water boil?"},
		"text":        {"keep me"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "http://gpu-box:8000", fake.backend)
	assert.Contains(t, body, "answer from http://gpu-box:8000")
	assert.Contains(t, body, "Water boils at 100 degrees.")
	assert.Contains(t, body, "keep me")
}

func TestServiceErrorStringShownAsIs(t *testing.T) {
	r, _ := newTestEngine(nil)

	w := postForm(r, "/summarize", url.Values{"text": {"hi"}})
	assert.Contains(t, w.Body.String(), "Error: input too short")
}

func TestTransportFailureShowsLocalMessage(t *testing.T) {
	r, _ := newTestEngine(context.DeadlineExceeded)

	w := postForm(r, "/qa", url.Values{"context": {"c"}, "question": {"q"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Request failed: context deadline exceeded")
}

func TestHandwritingUpload(t *testing.T) {
	r, fake := newTestEngine(nil)

	w := postFile(t, r, "Page1.JPG", []byte{0xff, 0xd8, 0xff})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, fake.uploaded)
	assert.Equal(t, "http://backend:9000", fake.backend)
	assert.Contains(t, w.Body.String(), "handwritten &lt;words&gt;")
}

func TestHandwritingRejectsOtherExtensions(t *testing.T) {
	r, fake := newTestEngine(nil)

	w := postFile(t, r, "notes.pdf", []byte("%PDF"))
	assert.Contains(t, w.Body.String(), "Request failed: unsupported file type")
	assert.Nil(t, fake.uploaded)
}

func TestHandwritingWithoutFile(t *testing.T) {
	r, fake := newTestEngine(nil)

	w := postFile(t, r, "", nil)
	assert.Contains(t, w.Body.String(), "Please choose an image to upload.")
	assert.Nil(t, fake.uploaded)
}

func TestAllowedUpload(t *testing.T) {
	assert.True(t, allowedUpload("a.png"))
	assert.True(t, allowedUpload("a.JPEG"))
	assert.False(t, allowedUpload("a.gif"))
	assert.False(t, allowedUpload("png"))
}
