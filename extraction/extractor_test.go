package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplaw-backend/models"
)

type stubVision struct {
	response string
	err      error
	mimeType string
	calls    int
}

func (s *stubVision) GenerateVision(_ context.Context, _ string, mimeType string, _ []byte) (string, error) {
	s.calls++
	s.mimeType = mimeType
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractText(t *testing.T) {
	e := NewExtractor(nil)

	text, err := e.Extract(context.Background(), []byte("plain contract text"), models.SourceFormatText)
	require.NoError(t, err)
	assert.Equal(t, "plain contract text", text)
}

func TestExtractTextStripsInvalidUTF8(t *testing.T) {
	e := NewExtractor(nil)

	text, err := e.Extract(context.Background(), []byte{'o', 'k', 0xff, 0xfe, '!'}, models.SourceFormatText)
	require.NoError(t, err)
	assert.Equal(t, "ok!", text)
}

func TestExtractEmptyFile(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Extract(context.Background(), nil, models.SourceFormatText)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Extract(context.Background(), []byte("data"), models.SourceFormat("docx"))
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractCorruptPDF(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Extract(context.Background(), []byte("%PDF-1.7 this is not a real pdf"), models.SourceFormatPDF)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractImageWithoutVision(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Extract(context.Background(), pngHeader(), models.SourceFormatImage)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractImageOCR(t *testing.T) {
	vision := &stubVision{response: "Extracted contract text."}
	e := NewExtractor(vision)

	text, err := e.Extract(context.Background(), pngHeader(), models.SourceFormatImage)
	require.NoError(t, err)
	assert.Equal(t, "Extracted contract text.", text)
	assert.Equal(t, "image/png", vision.mimeType)
}

func TestExtractImageRejectsNonImageBytes(t *testing.T) {
	vision := &stubVision{response: "unused"}
	e := NewExtractor(vision)

	_, err := e.Extract(context.Background(), []byte("just some text pretending"), models.SourceFormatImage)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.Zero(t, vision.calls)
}

func TestExtractImageVisionFailure(t *testing.T) {
	vision := &stubVision{err: errors.New("ocr backend down")}
	e := NewExtractor(vision)

	_, err := e.Extract(context.Background(), pngHeader(), models.SourceFormatImage)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

// pngHeader returns enough of a PNG file for content-type sniffing
func pngHeader() []byte {
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
}

func TestDecodeContentText(t *testing.T) {
	stream := []byte("BT /F1 12 Tf (Hello) Tj ( World) Tj ET\nBT 0 -14 Td (Second line) Tj ET")

	text := decodeContentText(stream)
	assert.Contains(t, text, "Hello World")
	assert.Contains(t, text, "Second line")
}

func TestDecodeContentTextArray(t *testing.T) {
	stream := []byte("BT [(Kerned )-120(text)] TJ ET")

	text := decodeContentText(stream)
	assert.Contains(t, text, "Kerned text")
}

func TestDecodeContentTextEscapes(t *testing.T) {
	stream := []byte(`BT (paren \(inside\) and\nnewline) Tj ET`)

	text := decodeContentText(stream)
	assert.Contains(t, text, "paren (inside) and")
	assert.Contains(t, text, "newline")
}

func TestParseLiteralNested(t *testing.T) {
	literal, next := parseLiteral([]byte("(outer (inner) tail) rest"), 0)
	assert.Equal(t, "outer (inner) tail", literal)
	assert.Equal(t, byte(' '), []byte("(outer (inner) tail) rest")[next])
}
