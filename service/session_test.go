package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(gen *stubGenerator) *Session {
	var opts []AnalysisOption
	if gen != nil {
		opts = append(opts, AnalysisWithGenerator(gen))
	}
	s := NewAnalysisService(opts...)
	session, err := s.OpenSession("The subscription renews automatically every month.")
	if err != nil {
		panic(err)
	}
	return session
}

func TestOpenSessionRejectsEmptyDocument(t *testing.T) {
	s := NewAnalysisService()

	_, err := s.OpenSession("")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.OpenSession("   \n ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOpenSessionRejectsOversizedDocument(t *testing.T) {
	s := NewAnalysisService(AnalysisWithMaxDocumentLength(10))

	_, err := s.OpenSession("this document is longer than ten bytes")
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestAskRecordsTurnsInOrder(t *testing.T) {
	gen := &stubGenerator{response: "Yes, monthly."}
	session := newTestSession(gen)

	for i := 0; i < 3; i++ {
		answer, err := session.Ask(context.Background(), fmt.Sprintf("question %d", i))
		require.NoError(t, err)
		assert.Equal(t, "Yes, monthly.", answer)
	}

	turns := session.Turns()
	require.Len(t, turns, 3)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("question %d", i), turn.Question)
	}
}

func TestAskEmptyQuestionSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{response: "unused"}
	session := newTestSession(gen)

	_, err := session.Ask(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = session.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, gen.calls())
	assert.Empty(t, session.Turns())
}

func TestAskAfterClose(t *testing.T) {
	gen := &stubGenerator{response: "answer"}
	session := newTestSession(gen)
	session.Close()

	_, err := session.Ask(context.Background(), "still there?")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Zero(t, gen.calls())
	assert.True(t, session.Closed())

	// Closing twice is a no-op.
	session.Close()
	assert.True(t, session.Closed())
}

func TestAskGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("backend down")}
	session := newTestSession(gen)

	_, err := session.Ask(context.Background(), "what happens now?")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Empty(t, session.Turns(), "failed turns are not recorded")
}

func TestAskWithoutGenerator(t *testing.T) {
	session := newTestSession(nil)

	_, err := session.Ask(context.Background(), "anything?")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestAskPromptCarriesHistoryWindow(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	s := NewAnalysisService(
		AnalysisWithGenerator(gen),
		AnalysisWithMaxTurnHistory(2),
	)
	session, err := s.OpenSession("Contract text.")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := session.Ask(context.Background(), fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	prompt := gen.lastPrompt()
	assert.NotContains(t, prompt, "Q: question 0")
	assert.NotContains(t, prompt, "Q: question 1")
	assert.Contains(t, prompt, "Q: question 2")
	assert.Contains(t, prompt, "Q: question 3")
	assert.Contains(t, prompt, "Contract text.")

	// All five turns are retained even though the prompt window is bounded.
	assert.Len(t, session.Turns(), 5)
}

func TestAskConcurrentCallsAllRecorded(t *testing.T) {
	gen := &stubGenerator{response: "answer"}
	session := newTestSession(gen)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := session.Ask(context.Background(), fmt.Sprintf("concurrent %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, session.Turns(), 8)
	assert.Equal(t, 8, gen.calls())
}

func TestSessionsAreIndependent(t *testing.T) {
	gen := &stubGenerator{response: "answer"}
	s := NewAnalysisService(AnalysisWithGenerator(gen))

	a, err := s.OpenSession("Document A.")
	require.NoError(t, err)
	b, err := s.OpenSession("Document B.")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	_, err = a.Ask(context.Background(), "about A?")
	require.NoError(t, err)

	assert.Len(t, a.Turns(), 1)
	assert.Empty(t, b.Turns())
}
