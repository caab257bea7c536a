package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplaw-backend/models"
)

// stubGenerator is the in-memory inference collaborator used across the
// service tests. It records every prompt it receives.
type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func (s *stubGenerator) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

func sampleFinding() models.Finding {
	return models.Finding{
		ClauseIndex: 0,
		ClauseText:  "Disputes are settled by binding arbitration.",
		PatternID:   "binding_arbitration",
		Title:       "Binding Arbitration",
		Category:    models.CategoryArbitration,
		Severity:    models.SeverityHigh,
		Span:        models.MatchedSpan{Start: 24, End: 43, Text: "binding arbitration"},
		Confidence:  1.0,
		Explanation: "You may be giving up your right to sue in court.",
	}
}

func TestExplainFindingUsesGenerator(t *testing.T) {
	gen := &stubGenerator{response: "Plain English explanation."}
	e := NewExplainer(gen)

	text, degraded := e.ExplainFinding(context.Background(), sampleFinding())
	assert.Equal(t, "Plain English explanation.", text)
	assert.False(t, degraded)
	assert.Contains(t, gen.lastPrompt(), "binding arbitration")
}

func TestExplainFindingFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	e := NewExplainer(gen)

	text, degraded := e.ExplainFinding(context.Background(), sampleFinding())
	assert.Equal(t, "You may be giving up your right to sue in court.", text)
	assert.True(t, degraded)
}

func TestExplainFindingNilGenerator(t *testing.T) {
	e := NewExplainer(nil)

	text, degraded := e.ExplainFinding(context.Background(), sampleFinding())
	assert.NotEmpty(t, text)
	assert.True(t, degraded)
}

func TestExplainFindingFallbackNeverEmpty(t *testing.T) {
	e := NewExplainer(nil)
	f := sampleFinding()
	f.Explanation = ""

	text, degraded := e.ExplainFinding(context.Background(), f)
	assert.NotEmpty(t, text)
	assert.True(t, degraded)
}

func TestSummarizeFallsBackToTemplate(t *testing.T) {
	gen := &stubGenerator{err: errors.New("unavailable")}
	e := NewExplainer(gen)
	doc := models.NewDocument("Disputes are settled by binding arbitration.", models.SourceFormatText)

	summary := e.Summarize(context.Background(), doc, []models.Finding{sampleFinding()})
	require.NotEmpty(t, summary)
	assert.Contains(t, summary, "Binding Arbitration")
}

func TestSimplifyNilGenerator(t *testing.T) {
	e := NewExplainer(nil)
	doc := models.NewDocument("Some legal text.", models.SourceFormatText)

	assert.Empty(t, e.Simplify(context.Background(), doc))
}

func TestExcerptCapsWithoutSplittingRunes(t *testing.T) {
	long := "héllo wörld héllo wörld"
	capped := excerpt(long, 10)
	assert.LessOrEqual(t, len(capped), 10)
	for _, r := range capped {
		assert.NotEqual(t, '�', r)
	}

	assert.Equal(t, "short", excerpt("short", 100))
}
