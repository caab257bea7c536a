package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"snaplaw-backend/inference"
	"snaplaw-backend/models"
)

const (
	// summaryExcerptLimit caps the document excerpt sent to the inference
	// collaborator so request cost stays bounded regardless of upload size.
	summaryExcerptLimit = 3000

	clauseExcerptLimit = 600
)

// Explainer turns findings and whole documents into plain language. It owns
// the request contract toward the inference collaborator: prompts are
// deterministic, document excerpts are length-capped, and finding context is
// passed as structured fields rather than raw prose. When the collaborator
// fails or returns empty output it degrades to the pattern's explanation
// template instead of failing the pipeline.
type Explainer struct {
	generator inference.Generator
}

// NewExplainer creates an explainer. A nil generator is allowed and routes
// every request straight to the deterministic template path.
func NewExplainer(generator inference.Generator) *Explainer {
	return &Explainer{generator: generator}
}

// ExplainFinding returns a plain-language explanation for one finding. The
// second return value reports whether the template fallback was used.
func (e *Explainer) ExplainFinding(ctx context.Context, f models.Finding) (string, bool) {
	fallback := f.Explanation
	if fallback == "" {
		fallback = fmt.Sprintf("This clause was flagged as %s risk (%s).", f.Severity, f.Title)
	}
	if e.generator == nil {
		return fallback, true
	}

	prompt := fmt.Sprintf(`Explain in plain English, for a non-lawyer, why the following contract clause is a potential risk.

RISK TYPE: %s
SEVERITY: %s
MATCHED TEXT: %s

CLAUSE:
%s

Answer in 2-3 sentences. Do not give legal advice.`,
		f.Title, f.Severity, f.Span.Text, excerpt(f.ClauseText, clauseExcerptLimit))

	text, err := e.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Printf("Warning: AI explanation unavailable for %s: %v", f.PatternID, err)
		return fallback, true
	}
	return strings.TrimSpace(text), false
}

// Summarize produces the document's plain-English summary. On collaborator
// failure it builds a deterministic summary from the finding set so the
// report is never partial.
func (e *Explainer) Summarize(ctx context.Context, doc models.Document, findings []models.Finding) string {
	if e.generator != nil {
		prompt := fmt.Sprintf(`Create a brief, clear summary of this legal document in plain English.
Focus on the key points, obligations, and important terms. Maximum 200 words.

Document:
%s

Summary:`, excerpt(doc.RawText, summaryExcerptLimit))

		text, err := e.generator.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		log.Printf("Warning: AI summary unavailable: %v", err)
	}
	return templateSummary(doc, findings)
}

// Simplify rewrites the document in plain English. Falls back to an empty
// string when the collaborator is unavailable; the report stays complete
// because the summary covers the degraded case.
func (e *Explainer) Simplify(ctx context.Context, doc models.Document) string {
	if e.generator == nil {
		return ""
	}
	prompt := fmt.Sprintf(`Please simplify the following legal text into plain English that anyone can understand.
Keep the meaning intact but make it accessible to non-lawyers. Use simple words, shorter sentences,
and everyday language.

Legal Text:
%s

Simplified Version:`, excerpt(doc.RawText, summaryExcerptLimit))

	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Warning: AI simplification unavailable: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// templateSummary is the deterministic degraded-mode summary
func templateSummary(doc models.Document, findings []models.Finding) string {
	if len(findings) == 0 {
		return fmt.Sprintf("This document contains %d words and no clauses matching known risk patterns.", doc.WordCount())
	}
	titles := make([]string, 0, len(findings))
	seen := map[string]bool{}
	for _, f := range findings {
		if !seen[f.Title] {
			seen[f.Title] = true
			titles = append(titles, f.Title)
		}
	}
	return fmt.Sprintf("This document contains %d words. %d clauses matched known risk patterns: %s. Review the flagged clauses before agreeing.",
		doc.WordCount(), len(findings), strings.Join(titles, ", "))
}

// excerpt caps text at limit bytes without splitting a UTF-8 sequence
func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && text[cut]&0xC0 == 0x80 {
		cut--
	}
	return text[:cut]
}
