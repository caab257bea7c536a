// Package inference wraps the AI collaborator behind small interfaces so the
// analysis pipeline and Q&A sessions can be exercised without network access.
package inference

import "context"

// Generator produces text for a prompt. Implementations must honor the
// context deadline and return an error for empty or blocked responses.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionGenerator produces text from a prompt plus an image, used for OCR
// of photographed documents.
type VisionGenerator interface {
	GenerateVision(ctx context.Context, prompt string, mimeType string, data []byte) (string, error)
}
