// Package webui serves the browser form client for the assistant service.
package webui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aigoflow/assistant-service/pkg/client"
)

//go:embed templates/*.html
var templates embed.FS

// AllowedExtensions are the upload types offered by the form.
var AllowedExtensions = []string{".png", ".jpg", ".jpeg"}

var ErrUnsupportedUpload = errors.New("unsupported file type, expected png, jpg or jpeg")

// Factory returns a client for the backend URL entered in the form.
type Factory func(backendURL string) client.AssistantClient

// HTTPFactory builds HTTP clients with fixed per-operation timeouts.
func HTTPFactory(timeouts client.Timeouts) Factory {
	return func(backendURL string) client.AssistantClient {
		return client.NewHTTPClient(backendURL, timeouts)
	}
}

type Handler struct {
	factory    Factory
	backendURL string
}

// page is everything the form template renders. Form inputs are echoed
// back so a submission does not clear the other sections.
type page struct {
	BackendURL string
	Accept     string
	Status     string

	Context  string
	Question string
	Answer   string
	Answered bool

	Text       string
	Summary    string
	Summarized bool

	Filename      string
	ExtractedText string
	Extracted     bool
}

func NewHandler(factory Factory, backendURL string) *Handler {
	return &Handler{factory: factory, backendURL: backendURL}
}

// NewEngine returns a gin engine with the form routes registered.
func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.POST("/qa", h.QA)
	r.POST("/summarize", h.Summarize)
	r.POST("/hw-eval", h.HandwritingEval)
}

func (h *Handler) Index(c *gin.Context) {
	p := h.newPage(c)
	p.Status = h.status(c.Request.Context(), p.BackendURL)
	c.HTML(http.StatusOK, "index.html", p)
}

func (h *Handler) QA(c *gin.Context) {
	p := h.newPage(c)
	answer, err := h.factory(p.BackendURL).QA(c.Request.Context(), p.Context, p.Question)
	p.Answer, p.Answered = resultText(answer, err), true
	h.render(c, p)
}

func (h *Handler) Summarize(c *gin.Context) {
	p := h.newPage(c)
	summary, err := h.factory(p.BackendURL).Summarize(c.Request.Context(), p.Text)
	p.Summary, p.Summarized = resultText(summary, err), true
	h.render(c, p)
}

func (h *Handler) HandwritingEval(c *gin.Context) {
	p := h.newPage(c)
	p.Extracted = true

	file, err := c.FormFile("file")
	if err != nil {
		p.ExtractedText = "Please choose an image to upload."
		h.render(c, p)
		return
	}
	p.Filename = file.Filename
	if !allowedUpload(file.Filename) {
		p.ExtractedText = resultText("", ErrUnsupportedUpload)
		h.render(c, p)
		return
	}

	data, err := readUpload(file)
	if err != nil {
		p.ExtractedText = resultText("", err)
		h.render(c, p)
		return
	}
	text, err := h.factory(p.BackendURL).HandwritingEval(c.Request.Context(), file.Filename, data)
	p.ExtractedText = resultText(text, err)
	h.render(c, p)
}

func (h *Handler) newPage(c *gin.Context) *page {
	backend := strings.TrimSpace(c.PostForm("backend_url"))
	if backend == "" {
		backend = strings.TrimSpace(c.Query("backend_url"))
	}
	if backend == "" {
		backend = h.backendURL
	}
	return &page{
		BackendURL: backend,
		Accept:     strings.Join(AllowedExtensions, ","),
		Status:     "unknown",
		Context:    c.PostForm("context"),
		Question:   c.PostForm("question"),
		Text:       c.PostForm("text"),
	}
}

func (h *Handler) render(c *gin.Context, p *page) {
	c.HTML(http.StatusOK, "index.html", p)
}

func (h *Handler) status(ctx context.Context, backendURL string) string {
	status, err := h.factory(backendURL).Health(ctx)
	if err != nil {
		slog.Debug("Backend health check failed", "backend_url", backendURL, "error", err)
		return "unreachable"
	}
	return status
}

// resultText shows the service's reply as is, or a local message when
// the call itself failed.
func resultText(reply string, err error) string {
	if err != nil {
		return fmt.Sprintf("Request failed: %v", err)
	}
	return reply
}

func allowedUpload(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Info("Form request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status())
	}
}
