package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplaw-backend/models"
)

func extract(text string) map[string]models.KeyTerm {
	e := NewKeyTermExtractor()
	return e.ExtractTerms(models.NewDocument(text, models.SourceFormatText))
}

func TestExtractQuotedDefinition(t *testing.T) {
	terms := extract(`"Confidential Information" means any non-public information disclosed by either party.`)

	require.Contains(t, terms, "confidential information")
	term := terms["confidential information"]
	assert.Equal(t, "Confidential Information", term.Term)
	assert.Contains(t, term.Definition, "non-public information")
}

func TestExtractParentheticalDefinition(t *testing.T) {
	terms := extract(`Acme Corp will provide consulting services (the "Services") under this agreement.`)

	require.Contains(t, terms, "services")
	assert.Contains(t, terms["services"].Definition, "consulting services")
}

func TestExtractCapitalizedDefinition(t *testing.T) {
	terms := extract(`The Effective Date shall mean the date this agreement is signed by both parties.`)

	require.Contains(t, terms, "effective date")
	assert.Contains(t, terms["effective date"].Definition, "date this agreement is signed")
}

func TestExtractTypographicQuotes(t *testing.T) {
	terms := extract(`“Subscription Term” means the period beginning on the start date.`)

	require.Contains(t, terms, "subscription term")
}

func TestExtractLongerDefinitionWins(t *testing.T) {
	terms := extract(`"Fees" means money. "Fees" means the charges payable by the customer under this agreement.`)

	require.Contains(t, terms, "fees")
	assert.Contains(t, terms["fees"].Definition, "charges payable")
}

func TestExtractNoTermsInPlainProse(t *testing.T) {
	terms := extract("The parties met on Tuesday and discussed the timeline for the project.")
	assert.Empty(t, terms)
}

func TestExtractDefinitionCapped(t *testing.T) {
	text := `"Scope" means `
	for i := 0; i < 100; i++ {
		text += "everything and anything "
	}
	terms := extract(text)

	require.Contains(t, terms, "scope")
	assert.LessOrEqual(t, len(terms["scope"].Definition), maxDefinitionLen)
}
