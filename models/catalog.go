package models

// Catalog is the set of risk patterns a matcher scans against. It is loaded
// once at process start (built-in defaults or the risk_patterns table) and
// treated as read-only afterwards.
type Catalog struct {
	Patterns []RiskPattern `json:"patterns"`
}

// DefaultCatalog returns the built-in risk pattern catalog used when no
// external catalog source is configured.
func DefaultCatalog() Catalog {
	return Catalog{Patterns: []RiskPattern{
		{
			ID:       "binding_arbitration",
			Title:    "Binding Arbitration",
			Category: CategoryArbitration,
			Severity: SeverityHigh,
			Phrases: []string{
				"binding arbitration",
				"arbitration clause",
				"mandatory arbitration",
				"waive right jury trial",
				"resolve disputes arbitration",
			},
			ExplanationTemplate: "You may be giving up your right to sue in court and must resolve disputes through arbitration.",
		},
		{
			ID:       "liability_waiver",
			Title:    "Liability Waiver",
			Category: CategoryLiabilityWaiver,
			Severity: SeverityHigh,
			Phrases: []string{
				"waive liability",
				"not liable damages",
				"disclaim warranties",
				"use at own risk",
				"hold harmless",
			},
			ExplanationTemplate: "The company may not be responsible for damages or problems that occur.",
		},
		{
			ID:       "termination_rights",
			Title:    "Unfair Termination",
			Category: CategoryUnfairTermination,
			Severity: SeverityHigh,
			Phrases: []string{
				"terminate at will",
				"suspend account any time",
				"discontinue service notice",
				"modify terms without notice",
			},
			ExplanationTemplate: "The company can end the agreement or change terms with little or no notice.",
		},
		{
			ID:       "automatic_renewal",
			Title:    "Auto-renewal",
			Category: CategoryAutoRenewal,
			Severity: SeverityMedium,
			Phrases: []string{
				"automatic renewal",
				"auto renew",
				"auto-renewal",
				"automatically extend",
				"renew unless cancel",
			},
			ExplanationTemplate: "The contract will automatically renew unless you actively cancel it.",
		},
		{
			ID:       "data_collection",
			Title:    "Data Collection",
			Category: CategoryDataCollection,
			Severity: SeverityMedium,
			Phrases: []string{
				"collect personal data",
				"personal information",
				"share information third parties",
				"sell data",
				"tracking cookies",
			},
			ExplanationTemplate: "Your personal information may be collected, stored, or shared with other companies.",
		},
		{
			ID:       "non_refundable",
			Title:    "Non-refundable",
			Category: CategoryNonRefundable,
			Severity: SeverityMedium,
			Phrases: []string{
				"non-refundable",
				"no refund",
				"no refunds",
				"all sales final",
				"fees are final",
				"payments not refund",
			},
			ExplanationTemplate: "You may not be able to get your money back under any circumstances.",
		},
	}}
}
