package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"snaplaw-backend/inference"
	"snaplaw-backend/models"
)

const defaultMatchWorkers = 8

// AnalysisService runs the document-to-risk-report pipeline: segmentation,
// pattern matching, aggregation, explanation and key-term extraction. Each
// Analyze call is independent; the service itself holds only read-only
// configuration and can serve concurrent requests.
type AnalysisService struct {
	catalog           models.Catalog
	generator         inference.Generator
	saturationK       float64
	maxDocumentLength int
	maxTurnHistory    int
	matchWorkers      int

	segmenter  *Segmenter
	matcher    *Matcher
	aggregator *Aggregator
	explainer  *Explainer
	keyTerms   *KeyTermExtractor
}

// AnalysisOption is a functional option for AnalysisService
type AnalysisOption func(*AnalysisService)

// AnalysisWithCatalog sets the risk pattern catalog
func AnalysisWithCatalog(catalog models.Catalog) AnalysisOption {
	return func(s *AnalysisService) {
		s.catalog = catalog
	}
}

// AnalysisWithGenerator sets the inference collaborator. Nil keeps the
// pipeline on the deterministic template path.
func AnalysisWithGenerator(generator inference.Generator) AnalysisOption {
	return func(s *AnalysisService) {
		s.generator = generator
	}
}

// AnalysisWithSaturationK sets the risk score saturation steepness
func AnalysisWithSaturationK(k float64) AnalysisOption {
	return func(s *AnalysisService) {
		s.saturationK = k
	}
}

// AnalysisWithMaxDocumentLength caps accepted document size in bytes
func AnalysisWithMaxDocumentLength(n int) AnalysisOption {
	return func(s *AnalysisService) {
		s.maxDocumentLength = n
	}
}

// AnalysisWithMaxTurnHistory bounds the Q&A grounding history window
func AnalysisWithMaxTurnHistory(n int) AnalysisOption {
	return func(s *AnalysisService) {
		s.maxTurnHistory = n
	}
}

// AnalysisWithMatchWorkers bounds per-request matching concurrency
func AnalysisWithMatchWorkers(n int) AnalysisOption {
	return func(s *AnalysisService) {
		s.matchWorkers = n
	}
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		catalog:        models.DefaultCatalog(),
		maxTurnHistory: DefaultMaxTurnHistory,
		matchWorkers:   defaultMatchWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.matchWorkers <= 0 {
		s.matchWorkers = defaultMatchWorkers
	}
	if s.maxTurnHistory <= 0 {
		s.maxTurnHistory = DefaultMaxTurnHistory
	}

	s.segmenter = NewSegmenter()
	s.matcher = NewMatcher(s.catalog)
	s.aggregator = NewAggregator(s.saturationK)
	s.explainer = NewExplainer(s.generator)
	s.keyTerms = NewKeyTermExtractor()
	return s
}

// Analyze runs the full pipeline over extracted document text and returns a
// complete risk report. Empty text yields an empty report with a zero score
// and never reaches the inference collaborator.
func (s *AnalysisService) Analyze(ctx context.Context, rawText string, format models.SourceFormat) (*models.RiskReport, error) {
	if s.maxDocumentLength > 0 && len(rawText) > s.maxDocumentLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(rawText))
	}

	doc := models.NewDocument(rawText, format)
	if strings.TrimSpace(rawText) == "" {
		return &models.RiskReport{
			Findings: []models.Finding{},
			KeyTerms: map[string]models.KeyTerm{},
		}, nil
	}

	clauses := s.segmenter.Segment(rawText)

	// Per-clause matching and key-term extraction are independent, so they
	// run in parallel; aggregation waits for the whole finding set because
	// the score is a function of all findings.
	perClause := make([][]models.Finding, len(clauses))
	var keyTerms map[string]models.KeyTerm

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.matchWorkers)
	g.Go(func() error {
		keyTerms = s.keyTerms.ExtractTerms(doc)
		return nil
	})
	for i := range clauses {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			perClause[i] = s.matcher.MatchClause(clauses[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var findings []models.Finding
	for _, fs := range perClause {
		findings = append(findings, fs...)
	}

	deduped, score := s.aggregator.Aggregate(findings)
	complexity := s.aggregator.ComplexityScore(doc, clauses)

	for i := range deduped {
		if deduped[i].Explanation == "" {
			deduped[i].Explanation = patternTemplate(s.catalog, deduped[i].PatternID)
		}
		explanation, degraded := s.explainer.ExplainFinding(ctx, deduped[i])
		deduped[i].Explanation = explanation
		deduped[i].AIUnavailable = degraded
	}

	return &models.RiskReport{
		WordCount:       doc.WordCount(),
		ClauseCount:     len(clauses),
		RiskScore:       score,
		ComplexityScore: complexity,
		Findings:        deduped,
		Summary:         s.explainer.Summarize(ctx, doc, deduped),
		SimplifiedText:  s.explainer.Simplify(ctx, doc),
		KeyTerms:        keyTerms,
	}, nil
}

// OpenSession binds document text to a new Q&A session
func (s *AnalysisService) OpenSession(documentText string) (*Session, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, fmt.Errorf("%w: document text is empty", ErrInvalidInput)
	}
	if s.maxDocumentLength > 0 && len(documentText) > s.maxDocumentLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(documentText))
	}
	return &Session{
		ID:         uuid.New(),
		document:   documentText,
		generator:  s.generator,
		maxHistory: s.maxTurnHistory,
	}, nil
}

func patternTemplate(catalog models.Catalog, patternID string) string {
	for _, p := range catalog.Patterns {
		if p.ID == patternID {
			return p.ExplanationTemplate
		}
	}
	return ""
}
