package models

// KeyTerm represents one defined term extracted from a document together
// with the short context it was defined in.
type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// RiskReport represents the complete structured output of analyzing one
// document. Findings are deduplicated and ordered by clause position.
// Reports are built once per request and immutable after construction.
type RiskReport struct {
	WordCount       int                `json:"word_count"`
	ClauseCount     int                `json:"clause_count"`
	RiskScore       float64            `json:"risk_score"`
	ComplexityScore float64            `json:"complexity_score"`
	Findings        []Finding          `json:"findings"`
	Summary         string             `json:"summary"`
	SimplifiedText  string             `json:"simplified_text"`
	KeyTerms        map[string]KeyTerm `json:"key_terms"`
}
