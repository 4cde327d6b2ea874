package tesseract

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/aigoflow/assistant-service/internal/ocr"
)

// Engine implements ocr.Engine with a gosseract client. Clients are not
// safe for concurrent use, so every call gets its own.
type Engine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// New constructs a Tesseract-backed OCR engine.
func New(languages ...string) *Engine {
	return &Engine{clientFactory: gosseract.NewClient, languages: languages}
}

func (e *Engine) Name() string { return "tesseract" }

func (e *Engine) Recognize(ctx context.Context, img *image.NRGBA) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := ocr.EncodePNG(img)
	if err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// Version reports the linked Tesseract library version.
func Version() string {
	c := gosseract.NewClient()
	defer c.Close()
	return c.Version()
}
