package models

// MatchedSpan locates the triggering text inside a clause, as byte offsets
// relative to Clause.Text.
type MatchedSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Finding represents a detected match between a clause and a risk pattern.
// It references the clause and pattern, it does not own them. Multiple
// findings may reference the same clause; deduplication happens during
// aggregation, not detection.
type Finding struct {
	ClauseIndex int         `json:"clause_index"`
	ClauseText  string      `json:"clause_text"`
	PatternID   string      `json:"pattern_id"`
	Title       string      `json:"title"`
	Category    Category    `json:"category"`
	Severity    Severity    `json:"severity"`
	Span        MatchedSpan `json:"span"`
	Confidence  float64     `json:"confidence"`
	Explanation string      `json:"explanation"`

	// AIUnavailable records that the plain-language explanation came from
	// the template fallback rather than the inference collaborator. Kept
	// out of the JSON surface; it exists for logging only.
	AIUnavailable bool `json:"-"`
}

// WeightedContribution returns the finding's contribution to the risk score
func (f Finding) WeightedContribution() float64 {
	return f.Severity.Weight() * f.Confidence
}
