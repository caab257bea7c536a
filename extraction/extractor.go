// Package extraction turns uploaded files into plain text for analysis.
// PDFs are decoded locally via pdfcpu, photographed documents go through the
// vision collaborator for OCR, and text files pass through with UTF-8
// sanitation. Extraction failures are terminal for the request: no partial
// analysis is ever produced from a file that could not be read.
package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"snaplaw-backend/inference"
	"snaplaw-backend/models"
)

// ErrExtractionFailed reports that a document could not be read. The caller
// surfaces it as "could not read document" and aborts the request.
var ErrExtractionFailed = errors.New("could not extract text from document")

const ocrPrompt = "Extract all text from this image. If this appears to be a legal document or contract, preserve the formatting and structure. Return only the extracted text."

// Extractor converts uploaded bytes into document text
type Extractor struct {
	vision inference.VisionGenerator
}

// NewExtractor creates an extractor. A nil vision collaborator disables
// image OCR; image uploads then fail with ErrExtractionFailed.
func NewExtractor(vision inference.VisionGenerator) *Extractor {
	return &Extractor{vision: vision}
}

// Extract returns the plain text content of a document
func (e *Extractor) Extract(ctx context.Context, data []byte, format models.SourceFormat) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrExtractionFailed)
	}
	switch format {
	case models.SourceFormatText:
		return strings.ToValidUTF8(string(data), ""), nil
	case models.SourceFormatPDF:
		return e.extractPDF(data)
	case models.SourceFormatImage:
		return e.extractImage(ctx, data)
	default:
		return "", fmt.Errorf("%w: unsupported format %q", ErrExtractionFailed, format)
	}
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	if e.vision == nil {
		return "", fmt.Errorf("%w: image OCR is not configured", ErrExtractionFailed)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: not an image (%s)", ErrExtractionFailed, mimeType)
	}
	text, err := e.vision.GenerateVision(ctx, ocrPrompt, mimeType, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return text, nil
}

// extractPDF validates the PDF and decodes the text operators of every
// page's content stream.
func (e *Extractor) extractPDF(data []byte) (string, error) {
	if _, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	workDir, err := os.MkdirTemp("", "snaplaw-pdf-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer os.RemoveAll(workDir)

	inFile := filepath.Join(workDir, "upload.pdf")
	if err := os.WriteFile(inFile, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	outDir := filepath.Join(workDir, "content")
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if err := api.ExtractContentFile(inFile, outDir, nil, nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var builder strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		page := decodeContentText(content)
		if page != "" {
			builder.WriteString(page)
			builder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text content found in PDF", ErrExtractionFailed)
	}
	return strings.ToValidUTF8(text, ""), nil
}
