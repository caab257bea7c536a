package service

import "errors"

var (
	// ErrInvalidInput rejects empty or malformed caller input before any
	// I/O is performed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentTooLarge rejects documents over the configured maximum length
	ErrDocumentTooLarge = errors.New("document exceeds maximum length")

	// ErrGenerationFailed surfaces an inference collaborator failure on a
	// path with no deterministic fallback (question answering).
	ErrGenerationFailed = errors.New("failed to generate answer")

	// ErrSessionClosed rejects operations on a closed Q&A session
	ErrSessionClosed = errors.New("session is closed")
)
