package service

import (
	"regexp"
	"strings"

	"snaplaw-backend/models"
)

// Segmenter splits raw document text into ordered clauses. Splitting happens
// on structural boundaries first (blank lines, numbered or lettered clause
// markers) and falls back to sentence-ending punctuation for plain prose.
// Concatenating the produced clause texts in index order reconstructs the
// document modulo whitespace.
type Segmenter struct{}

// NewSegmenter creates a new segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

var (
	blockSeparator = regexp.MustCompile(`\n[ \t]*\n+`)
	clauseMarker   = regexp.MustCompile(`(?m)^[ \t]*(?:\d+(?:\.\d+)*[.)]|\([a-zA-Z0-9]{1,3}\)|[IVXLivxl]+\.)[ \t]+`)
)

type span struct {
	start int
	end   int
}

// Segment splits rawText into clauses. Whitespace-only input yields nil.
func (s *Segmenter) Segment(rawText string) []models.Clause {
	if strings.TrimSpace(rawText) == "" {
		return nil
	}

	var clauses []models.Clause
	for _, block := range splitByPattern(rawText, span{0, len(rawText)}, blockSeparator) {
		pieces, hadMarkers := splitAtMarkers(rawText, block)
		if !hadMarkers {
			pieces = splitSentences(rawText, block)
		}
		for _, piece := range pieces {
			text, start, end := trimSpan(rawText, piece)
			if text == "" {
				continue
			}
			clauses = append(clauses, models.Clause{
				Index:       len(clauses),
				Text:        text,
				StartOffset: start,
				EndOffset:   end,
			})
		}
	}
	return clauses
}

// splitByPattern carves sp into the sub-spans between matches of re
func splitByPattern(raw string, sp span, re *regexp.Regexp) []span {
	matches := re.FindAllStringIndex(raw[sp.start:sp.end], -1)
	if len(matches) == 0 {
		return []span{sp}
	}
	var spans []span
	prev := sp.start
	for _, m := range matches {
		spans = append(spans, span{prev, sp.start + m[0]})
		prev = sp.start + m[1]
	}
	spans = append(spans, span{prev, sp.end})
	return spans
}

// splitAtMarkers splits a block at numbered/lettered clause markers. Marker
// text stays with the clause it introduces. The second return value reports
// whether any marker was found; marker-structured blocks never get the
// sentence fallback.
func splitAtMarkers(raw string, sp span) ([]span, bool) {
	matches := clauseMarker.FindAllStringIndex(raw[sp.start:sp.end], -1)
	if len(matches) == 0 {
		return []span{sp}, false
	}
	var spans []span
	prev := sp.start
	for _, m := range matches {
		boundary := sp.start + m[0]
		if boundary > prev {
			spans = append(spans, span{prev, boundary})
		}
		prev = boundary
	}
	spans = append(spans, span{prev, sp.end})
	return spans, true
}

// splitSentences cuts a span after sentence-ending punctuation followed by
// whitespace. The punctuation stays with the preceding sentence.
func splitSentences(raw string, sp span) []span {
	var spans []span
	start := sp.start
	for i := sp.start; i < sp.end; i++ {
		switch raw[i] {
		case '.', '!', '?', ';':
			if i+1 == sp.end || isSpace(raw[i+1]) {
				spans = append(spans, span{start, i + 1})
				start = i + 1
			}
		}
	}
	if start < sp.end {
		spans = append(spans, span{start, sp.end})
	}
	return spans
}

// trimSpan shrinks a span to its non-whitespace extent
func trimSpan(raw string, sp span) (string, int, int) {
	start, end := sp.start, sp.end
	for start < end && isSpace(raw[start]) {
		start++
	}
	for end > start && isSpace(raw[end-1]) {
		end--
	}
	return raw[start:end], start, end
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
