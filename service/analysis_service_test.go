package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplaw-backend/models"
)

func TestAnalyzeArbitrationScenario(t *testing.T) {
	s := NewAnalysisService(AnalysisWithCatalog(arbitrationOnlyCatalog()))
	text := "This agreement contains a binding arbitration clause. You waive your right to a jury trial."

	report, err := s.Analyze(context.Background(), text, models.SourceFormatText)
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, 0, f.ClauseIndex)
	assert.Equal(t, models.SeverityHigh, f.Severity)
	assert.Equal(t, models.CategoryArbitration, f.Category)
	assert.NotEmpty(t, f.Explanation)

	assert.Greater(t, report.RiskScore, 0.0)
	assert.LessOrEqual(t, report.RiskScore, 100.0)
	assert.Equal(t, 2, report.ClauseCount)
	assert.Equal(t, 15, report.WordCount)
	assert.NotEmpty(t, report.Summary)
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	gen := &stubGenerator{response: "should never be used"}
	s := NewAnalysisService(AnalysisWithGenerator(gen))

	report, err := s.Analyze(context.Background(), "", models.SourceFormatText)
	require.NoError(t, err)

	assert.Empty(t, report.Findings)
	assert.NotNil(t, report.Findings)
	assert.Zero(t, report.RiskScore)
	assert.Zero(t, report.ClauseCount)
	assert.Zero(t, report.WordCount)
	assert.Zero(t, gen.calls(), "inference collaborator is never consulted for empty input")
}

func TestAnalyzeTooLarge(t *testing.T) {
	s := NewAnalysisService(AnalysisWithMaxDocumentLength(20))

	_, err := s.Analyze(context.Background(), strings.Repeat("a ", 50), models.SourceFormatText)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestAnalyzeDeduplicatesSameCategory(t *testing.T) {
	s := NewAnalysisService()
	// Both phrases hit the arbitration pattern inside one clause.
	text := "Disputes go to binding arbitration under the mandatory arbitration rules here."

	report, err := s.Analyze(context.Background(), text, models.SourceFormatText)
	require.NoError(t, err)

	arbitration := 0
	for _, f := range report.Findings {
		if f.Category == models.CategoryArbitration {
			arbitration++
		}
	}
	assert.Equal(t, 1, arbitration)
}

func TestAnalyzeWithGeneratorExplanations(t *testing.T) {
	gen := &stubGenerator{response: "AI explanation text."}
	s := NewAnalysisService(
		AnalysisWithCatalog(arbitrationOnlyCatalog()),
		AnalysisWithGenerator(gen),
	)

	report, err := s.Analyze(context.Background(), "Disputes go to binding arbitration.", models.SourceFormatText)
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "AI explanation text.", report.Findings[0].Explanation)
	assert.False(t, report.Findings[0].AIUnavailable)
	assert.Equal(t, "AI explanation text.", report.Summary)
	assert.NotEmpty(t, report.SimplifiedText)
}

func TestAnalyzeDegradedWithoutGenerator(t *testing.T) {
	s := NewAnalysisService(AnalysisWithCatalog(arbitrationOnlyCatalog()))

	report, err := s.Analyze(context.Background(), "Disputes go to binding arbitration.", models.SourceFormatText)
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "You may be giving up your right to sue in court.", report.Findings[0].Explanation)
	assert.True(t, report.Findings[0].AIUnavailable)
	assert.NotEmpty(t, report.Summary)
	assert.Empty(t, report.SimplifiedText)
}

func TestAnalyzeExtractsKeyTerms(t *testing.T) {
	s := NewAnalysisService()
	text := `The Provider shall deliver the services described in Exhibit A (the "Services"). "Confidential Information" means any non-public business information.`

	report, err := s.Analyze(context.Background(), text, models.SourceFormatText)
	require.NoError(t, err)

	require.Contains(t, report.KeyTerms, "services")
	require.Contains(t, report.KeyTerms, "confidential information")
	assert.Equal(t, "Services", report.KeyTerms["services"].Term)
}

func TestAnalyzeFullDocument(t *testing.T) {
	s := NewAnalysisService()
	text := `TERMS OF SERVICE

1. Disputes shall be resolved through binding arbitration.
2. The company shall not be liable for any damages arising from use.
3. Subscriptions are subject to automatic renewal each billing cycle.
4. All fees are non-refundable.
5. We collect personal information to provide the service.`

	report, err := s.Analyze(context.Background(), text, models.SourceFormatText)
	require.NoError(t, err)

	categories := map[models.Category]bool{}
	for _, f := range report.Findings {
		categories[f.Category] = true
	}
	assert.True(t, categories[models.CategoryArbitration])
	assert.True(t, categories[models.CategoryAutoRenewal])
	assert.True(t, categories[models.CategoryNonRefundable])
	assert.True(t, categories[models.CategoryDataCollection])

	assert.Greater(t, report.RiskScore, 20.0)
	assert.Greater(t, report.ComplexityScore, 0.0)

	// Findings arrive ordered by clause index.
	for i := 1; i < len(report.Findings); i++ {
		assert.GreaterOrEqual(t, report.Findings[i].ClauseIndex, report.Findings[i-1].ClauseIndex)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	s := NewAnalysisService()
	text := "Disputes go to binding arbitration. All sales final, no refunds. We collect personal information."

	first, err := s.Analyze(context.Background(), text, models.SourceFormatText)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Analyze(context.Background(), text, models.SourceFormatText)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
