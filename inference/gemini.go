package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

const (
	// DefaultModel matches the model the analysis prompts were tuned on
	DefaultModel = "gemini-1.5-flash"

	defaultTimeout = 60 * time.Second
)

// Gemini implements Generator and VisionGenerator on top of the Gemini API
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini wraps a genai client. Empty model or non-positive timeout fall
// back to defaults.
func NewGemini(client *genai.Client, model string, timeout time.Duration) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gemini{client: client, model: model, timeout: timeout}
}

// Generate sends a text prompt and returns the concatenated response text
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, genai.Text(prompt))
}

// GenerateVision sends a prompt plus image bytes, used for document OCR.
// mimeType must be an image MIME type like "image/png".
func (g *Gemini) GenerateVision(ctx context.Context, prompt string, mimeType string, data []byte) (string, error) {
	subtype := strings.TrimPrefix(mimeType, "image/")
	return g.generate(ctx, genai.Text(prompt), genai.ImageData(subtype, data))
}

func (g *Gemini) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	result := strings.TrimSpace(builder.String())
	if result == "" {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return result, nil
}
