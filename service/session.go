package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"snaplaw-backend/inference"
)

const (
	// DefaultMaxTurnHistory bounds how many prior turns are replayed into
	// each grounding prompt. Older turns are dropped most-recent-first.
	DefaultMaxTurnHistory = 10

	qaExcerptLimit = 4000
)

// Turn represents one question/answer exchange in a session
type Turn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Session holds the conversational state for follow-up questions about one
// document. Turns are append-only and ordered by arrival; the mutex keeps
// one Ask in flight at a time because each turn's grounding depends on all
// prior turns. Sessions for different documents share no state.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	document   string
	turns      []Turn
	closed     bool
	generator  inference.Generator
	maxHistory int
}

// Ask answers a question about the session's document. Empty questions are
// rejected with ErrInvalidInput before the inference collaborator is
// consulted; a collaborator failure surfaces as ErrGenerationFailed because
// open-ended questions have no safe template fallback.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrSessionClosed
	}
	if s.generator == nil {
		return "", fmt.Errorf("%w: inference collaborator not configured", ErrGenerationFailed)
	}

	answer, err := s.generator.Generate(ctx, s.buildPrompt(question))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	answer = strings.TrimSpace(answer)

	s.turns = append(s.turns, Turn{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	})
	return answer, nil
}

// buildPrompt grounds the question in the document text plus the bounded
// recent conversation history. Caller holds s.mu.
func (s *Session) buildPrompt(question string) string {
	var builder strings.Builder
	builder.WriteString(`Based on the following legal document, answer the question accurately and concisely.
Only use information from the document and the conversation so far. If the document does not answer the question, say so.

Document:
`)
	builder.WriteString(excerpt(s.document, qaExcerptLimit))

	history := s.turns
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	if len(history) > 0 {
		builder.WriteString("\n\nConversation so far:\n")
		for _, turn := range history {
			builder.WriteString(fmt.Sprintf("Q: %s\nA: %s\n", turn.Question, turn.Answer))
		}
	}

	builder.WriteString(fmt.Sprintf("\nQuestion: %s\n\nAnswer:", question))
	return builder.String()
}

// Turns returns a copy of the session's turns in arrival order
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Close transitions the session to its terminal state. Any Ask after Close
// fails with ErrSessionClosed. Closing twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether the session has been closed
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
