package service

import (
	"math"
	"sort"
	"strings"

	"snaplaw-backend/models"
)

// DefaultSaturationK is the default steepness of the risk score saturation
// curve. At this value a single high-severity exact finding scores ~21 and
// roughly ten of them approach 95.
const DefaultSaturationK = 0.08

// legalJargon drives the complexity score's jargon density measure
var legalJargon = map[string]bool{
	"whereas": true, "heretofore": true, "hereinafter": true,
	"notwithstanding": true, "aforementioned": true, "pursuant": true,
	"thereof": true, "hereby": true, "hereunder": true, "indemnify": true,
	"covenant": true, "warranty": true, "liability": true,
	"jurisdiction": true, "arbitration": true, "severability": true,
	"consideration": true, "breach": true, "termination": true,
	"governing": true, "enforceable": true,
}

// Aggregator combines per-clause findings into document-level scores.
// The risk score is a pure function of the deduplicated finding set:
// 100 * (1 - exp(-k * sum(severity_weight * confidence))), which is
// monotonic in every finding's weighted contribution and saturates toward
// 100 instead of overflowing.
type Aggregator struct {
	saturationK float64
}

// NewAggregator creates an aggregator with the given saturation steepness.
// Non-positive values fall back to DefaultSaturationK.
func NewAggregator(saturationK float64) *Aggregator {
	if saturationK <= 0 {
		saturationK = DefaultSaturationK
	}
	return &Aggregator{saturationK: saturationK}
}

// Aggregate deduplicates findings and computes the document risk score.
// The returned findings are ordered by clause index, then category.
func (a *Aggregator) Aggregate(findings []models.Finding) ([]models.Finding, float64) {
	deduped := a.Dedupe(findings)
	return deduped, a.RiskScore(deduped)
}

// Dedupe keeps, for each (clause, category) pair, only the finding with the
// highest confidence. Earlier findings win ties.
func (a *Aggregator) Dedupe(findings []models.Finding) []models.Finding {
	type key struct {
		clause   int
		category models.Category
	}
	best := make(map[key]models.Finding)
	for _, f := range findings {
		k := key{clause: f.ClauseIndex, category: f.Category}
		current, ok := best[k]
		if !ok || f.Confidence > current.Confidence {
			best[k] = f
		}
	}

	deduped := make([]models.Finding, 0, len(best))
	for _, f := range best {
		deduped = append(deduped, f)
	}
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].ClauseIndex != deduped[j].ClauseIndex {
			return deduped[i].ClauseIndex < deduped[j].ClauseIndex
		}
		return deduped[i].Category < deduped[j].Category
	})
	return deduped
}

// RiskScore maps the deduplicated finding set to [0,100]
func (a *Aggregator) RiskScore(findings []models.Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range findings {
		total += f.WeightedContribution()
	}
	return 100 * (1 - math.Exp(-a.saturationK*total))
}

// ComplexityScore rates a document 0-10 from average clause length and
// legal jargon density. It is monotonic in jargon density.
func (a *Aggregator) ComplexityScore(doc models.Document, clauses []models.Clause) float64 {
	if len(clauses) == 0 {
		return 0
	}
	words := strings.Fields(doc.RawText)
	if len(words) == 0 {
		return 0
	}

	jargonCount := 0
	for _, w := range words {
		if legalJargon[strings.ToLower(strings.Trim(w, ".,;:()\"'"))] {
			jargonCount++
		}
	}

	avgWordsPerClause := float64(len(words)) / float64(len(clauses))
	jargonDensity := float64(jargonCount) / float64(len(words)) * 100

	clauseComplexity := math.Min(avgWordsPerClause/15, 2.0)
	jargonComplexity := math.Min(jargonDensity/2, 2.0)

	return math.Min((clauseComplexity+jargonComplexity)*2.5, 10.0)
}
