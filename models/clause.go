package models

// Clause represents a contiguous span of document text treated as one
// analysis unit. Indices are assigned in document order by the segmenter;
// StartOffset/EndOffset are byte offsets into Document.RawText.
type Clause struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}
