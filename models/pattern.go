package models

// Category represents a class of contractual risk a pattern detects
type Category string

const (
	CategoryArbitration       Category = "arbitration"
	CategoryLiabilityWaiver   Category = "liability_waiver"
	CategoryUnfairTermination Category = "unfair_termination"
	CategoryAutoRenewal       Category = "auto_renewal"
	CategoryDataCollection    Category = "data_collection"
	CategoryNonRefundable     Category = "non_refundable"
	CategoryStandard          Category = "standard"
)

// Severity represents the weight tier of a risk pattern
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight returns the scoring weight of a severity tier
func (s Severity) Weight() float64 {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// RiskPattern represents one entry in the risk catalog. Phrases are the
// detection rule: each phrase is a sequence of lowercase words that triggers
// a finding when it appears verbatim in a clause, or when its words appear
// in order within a bounded window (reduced confidence).
type RiskPattern struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Category            Category `json:"category"`
	Severity            Severity `json:"severity"`
	Phrases             []string `json:"phrases"`
	ExplanationTemplate string   `json:"explanation_template"`
}
