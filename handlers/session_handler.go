package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"snaplaw-backend/service"
)

// SessionHandler handles Q&A session endpoints. Sessions live in memory for
// as long as the client keeps them open; closing a session discards the
// document text it was grounded in.
type SessionHandler struct {
	analysisService *service.AnalysisService

	mu       sync.RWMutex
	sessions map[uuid.UUID]*service.Session
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(analysisService *service.AnalysisService) *SessionHandler {
	return &SessionHandler{
		analysisService: analysisService,
		sessions:        make(map[uuid.UUID]*service.Session),
	}
}

// OpenSessionRequest represents the request body for opening a session
type OpenSessionRequest struct {
	DocumentText string `json:"document_text" binding:"required"`
}

// Open handles POST /api/sessions
func (h *SessionHandler) Open(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	session, err := h.analysisService.OpenSession(req.DocumentText)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
		case errors.Is(err, service.ErrDocumentTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge, "DOCUMENT_TOO_LARGE", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "SESSION_FAILED", err.Error())
		}
		return
	}

	h.mu.Lock()
	h.sessions[session.ID] = session
	h.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"session_id": session.ID,
		},
	})
}

// AskRequest represents the request body for asking a question
type AskRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /api/sessions/:id/ask
func (h *SessionHandler) Ask(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	answer, err := session.Ask(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, "INVALID_QUESTION", "No question provided")
		case errors.Is(err, service.ErrSessionClosed):
			respondError(c, http.StatusConflict, "SESSION_CLOSED", "The session has been closed")
		case errors.Is(err, service.ErrGenerationFailed):
			respondError(c, http.StatusBadGateway, "GENERATION_FAILED", "Could not generate an answer, try again")
		default:
			respondError(c, http.StatusInternalServerError, "ASK_FAILED", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"answer": answer,
		},
	})
}

// Close handles DELETE /api/sessions/:id
func (h *SessionHandler) Close(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	session.Close()

	h.mu.Lock()
	delete(h.sessions, session.ID)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func (h *SessionHandler) lookup(c *gin.Context) (*service.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID format")
		return nil, false
	}

	h.mu.RLock()
	session, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
		return nil, false
	}
	return session, true
}
