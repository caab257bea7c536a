package service

import (
	"regexp"
	"strings"

	"snaplaw-backend/models"
)

// maxDefinitionLen caps the context snippet stored as a term's definition
const maxDefinitionLen = 200

// KeyTermExtractor pulls defined terms out of a document. It looks for the
// quoting and capitalization conventions legal drafting uses to introduce
// terms and keeps a short context snippet as the definition. Extraction is
// deterministic and the result is a set keyed by the normalized term, so
// output does not depend on scan order.
type KeyTermExtractor struct{}

// NewKeyTermExtractor creates a new key-term extractor
func NewKeyTermExtractor() *KeyTermExtractor {
	return &KeyTermExtractor{}
}

var (
	// ("Term") or (the "Term") - parenthetical definition of preceding text
	parentheticalTerm = regexp.MustCompile(`\((?:the\s+|this\s+|such\s+)?[“"]([A-Z][^”"]{0,60})[”"]\)`)

	// "Term" means/shall mean/refers to/is defined as ...
	definedTerm = regexp.MustCompile(`[“"]([A-Z][^”"]{0,60})[”"]\s+(?:means|shall mean|refers to|is defined as|includes)\s+`)

	// The Term shall mean ... (capitalized multiword, no quotes)
	capitalizedTerm = regexp.MustCompile(`(?:[Tt]he|[Tt]his|[Ss]uch)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})\s+(?:means|shall mean|refers to|is defined as)\s+`)
)

// ExtractTerms returns the document's defined terms keyed by normalized
// (lowercased) term text. When the same term is defined more than once the
// longer definition wins.
func (e *KeyTermExtractor) ExtractTerms(doc models.Document) map[string]models.KeyTerm {
	terms := make(map[string]models.KeyTerm)
	text := doc.RawText

	for _, m := range definedTerm.FindAllStringSubmatchIndex(text, -1) {
		term := text[m[2]:m[3]]
		add(terms, term, definitionAfter(text, m[1]))
	}
	for _, m := range capitalizedTerm.FindAllStringSubmatchIndex(text, -1) {
		term := text[m[2]:m[3]]
		add(terms, term, definitionAfter(text, m[1]))
	}
	for _, m := range parentheticalTerm.FindAllStringSubmatchIndex(text, -1) {
		term := text[m[2]:m[3]]
		add(terms, term, definitionBefore(text, m[0]))
	}
	return terms
}

func add(terms map[string]models.KeyTerm, term, definition string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	key := strings.ToLower(term)
	if existing, ok := terms[key]; ok && len(existing.Definition) >= len(definition) {
		return
	}
	terms[key] = models.KeyTerm{Term: term, Definition: definition}
}

// definitionAfter captures text following a definition marker up to the end
// of the sentence.
func definitionAfter(text string, from int) string {
	end := from
	for end < len(text) && end-from < maxDefinitionLen {
		if text[end] == '.' || text[end] == ';' || text[end] == '\n' {
			break
		}
		end++
	}
	return strings.TrimSpace(text[from:end])
}

// definitionBefore captures the sentence fragment preceding a parenthetical
// term, which is the prose the term abbreviates.
func definitionBefore(text string, to int) string {
	start := to
	for start > 0 && to-start < maxDefinitionLen {
		c := text[start-1]
		if c == '.' || c == ';' || c == '\n' {
			break
		}
		start--
	}
	return strings.TrimSpace(text[start:to])
}
