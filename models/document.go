package models

// SourceFormat represents the original format of an uploaded document
type SourceFormat string

const (
	SourceFormatPDF   SourceFormat = "pdf"
	SourceFormatImage SourceFormat = "image"
	SourceFormatText  SourceFormat = "text"
)

// Document represents one uploaded document's extracted text.
// It is created once per analysis request and never mutated.
type Document struct {
	RawText      string       `json:"raw_text"`
	SourceFormat SourceFormat `json:"source_format"`
	Length       int          `json:"length"`
}

// NewDocument builds a Document value from extracted text
func NewDocument(rawText string, format SourceFormat) Document {
	return Document{
		RawText:      rawText,
		SourceFormat: format,
		Length:       len(rawText),
	}
}

// WordCount returns the number of whitespace-separated words in the document
func (d Document) WordCount() int {
	count := 0
	inWord := false
	for _, r := range d.RawText {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			inWord = false
		default:
			if !inWord {
				count++
			}
			inWord = true
		}
	}
	return count
}
