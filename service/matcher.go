package service

import (
	"strings"
	"unicode"

	"snaplaw-backend/models"
)

const (
	exactConfidence     = 1.0
	proximityConfidence = 0.7
	negationPenalty     = 0.5

	// maxWordGap bounds how many intervening tokens a proximity match may
	// skip between consecutive phrase words.
	maxWordGap = 5
)

// negators reduce a match's confidence when they immediately precede it
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"without": true,
}

// Matcher scans clauses against a risk pattern catalog. Patterns are indexed
// by trigger token so each clause only evaluates patterns whose trigger
// appears in it, keeping runtime sub-quadratic as the catalog grows.
// Matching is deterministic: identical input always yields identical output.
type Matcher struct {
	catalog  models.Catalog
	phrases  [][]phrase      // compiled phrases per catalog pattern
	triggers map[string][]int // trigger token -> catalog pattern indices
}

type phrase struct {
	words []string
}

// NewMatcher compiles a catalog into a keyword-indexed matcher
func NewMatcher(catalog models.Catalog) *Matcher {
	m := &Matcher{
		catalog:  catalog,
		phrases:  make([][]phrase, len(catalog.Patterns)),
		triggers: make(map[string][]int),
	}
	for i, p := range catalog.Patterns {
		seen := map[string]bool{}
		for _, raw := range p.Phrases {
			words := strings.Fields(strings.ToLower(raw))
			if len(words) == 0 {
				continue
			}
			m.phrases[i] = append(m.phrases[i], phrase{words: words})
			if !seen[words[0]] {
				seen[words[0]] = true
				m.triggers[words[0]] = append(m.triggers[words[0]], i)
			}
		}
	}
	return m
}

// Match evaluates every clause against the catalog and returns findings in
// clause order. Deduplication is left to the aggregator.
func (m *Matcher) Match(clauses []models.Clause) []models.Finding {
	var findings []models.Finding
	for _, clause := range clauses {
		findings = append(findings, m.MatchClause(clause)...)
	}
	return findings
}

// MatchClause evaluates a single clause and emits at most one finding per
// triggered pattern, keeping the highest-confidence phrase hit.
func (m *Matcher) MatchClause(clause models.Clause) []models.Finding {
	tokens := tokenize(clause.Text)
	if len(tokens) == 0 {
		return nil
	}

	candidates := make([]bool, len(m.catalog.Patterns))
	for _, tok := range tokens {
		for _, idx := range m.triggers[tok.lower] {
			candidates[idx] = true
		}
	}

	var findings []models.Finding
	for idx, active := range candidates {
		if !active {
			continue
		}
		pattern := m.catalog.Patterns[idx]
		best, ok := bestPhraseMatch(tokens, m.phrases[idx])
		if !ok {
			continue
		}
		findings = append(findings, models.Finding{
			ClauseIndex: clause.Index,
			ClauseText:  clause.Text,
			PatternID:   pattern.ID,
			Title:       pattern.Title,
			Category:    pattern.Category,
			Severity:    pattern.Severity,
			Span: models.MatchedSpan{
				Start: tokens[best.first].start,
				End:   tokens[best.last].end,
				Text:  clause.Text[tokens[best.first].start:tokens[best.last].end],
			},
			Confidence: best.confidence,
		})
	}
	return findings
}

type token struct {
	lower string
	start int
	end   int
}

// tokenize splits clause text into lowercase word tokens with byte offsets.
// Hyphens and apostrophes are kept inside tokens so terms like
// "non-refundable" survive as single words.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		wordRune := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\''
		if wordRune && start < 0 {
			start = i
		}
		if !wordRune && start >= 0 {
			tokens = append(tokens, token{lower: strings.ToLower(text[start:i]), start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{lower: strings.ToLower(text[start:]), start: start, end: len(text)})
	}
	return tokens
}

type phraseMatch struct {
	first      int
	last       int
	confidence float64
}

// bestPhraseMatch evaluates all phrases of a pattern against the clause
// tokens and returns the highest-confidence hit. Phrase order breaks ties,
// so results are stable for identical input.
func bestPhraseMatch(tokens []token, phrases []phrase) (phraseMatch, bool) {
	var best phraseMatch
	found := false
	for _, p := range phrases {
		match, ok := matchPhrase(tokens, p.words)
		if !ok {
			continue
		}
		if !found || match.confidence > best.confidence {
			best = match
			found = true
		}
	}
	return best, found
}

// matchPhrase looks for the phrase words as consecutive tokens (exact hit)
// or as an in-order subsequence with bounded gaps (proximity hit). A negator
// token directly before the match halves the confidence.
func matchPhrase(tokens []token, words []string) (phraseMatch, bool) {
	// Exact: consecutive tokens.
	for i := 0; i+len(words) <= len(tokens); i++ {
		matched := true
		for j, w := range words {
			if tokens[i+j].lower != w {
				matched = false
				break
			}
		}
		if matched {
			return applyNegation(tokens, phraseMatch{
				first:      i,
				last:       i + len(words) - 1,
				confidence: exactConfidence,
			}, words), true
		}
	}

	if len(words) == 1 {
		return phraseMatch{}, false
	}

	// Proximity: words in order, at most maxWordGap tokens between
	// consecutive words.
	for i := 0; i < len(tokens); i++ {
		if tokens[i].lower != words[0] {
			continue
		}
		pos := i
		ok := true
		for _, w := range words[1:] {
			next := -1
			for k := pos + 1; k <= pos+1+maxWordGap && k < len(tokens); k++ {
				if tokens[k].lower == w {
					next = k
					break
				}
			}
			if next < 0 {
				ok = false
				break
			}
			pos = next
		}
		if ok {
			return applyNegation(tokens, phraseMatch{
				first:      i,
				last:       pos,
				confidence: proximityConfidence,
			}, words), true
		}
	}
	return phraseMatch{}, false
}

// applyNegation halves confidence when a negator immediately precedes the
// match and is not itself part of the phrase (e.g. "no refunds").
func applyNegation(tokens []token, m phraseMatch, words []string) phraseMatch {
	if m.first == 0 {
		return m
	}
	prev := tokens[m.first-1].lower
	if negators[prev] && prev != words[0] {
		m.confidence *= negationPenalty
	}
	return m
}
