package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"snaplaw-backend/extraction"
	"snaplaw-backend/models"
	"snaplaw-backend/service"
	"snaplaw-backend/storage"
)

// formatByExtension maps accepted upload extensions to source formats
var formatByExtension = map[string]models.SourceFormat{
	".pdf":  models.SourceFormatPDF,
	".jpg":  models.SourceFormatImage,
	".jpeg": models.SourceFormatImage,
	".png":  models.SourceFormatImage,
	".txt":  models.SourceFormatText,
}

// AnalysisHandler handles document upload and analysis requests
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	extractor       *extraction.Extractor
	store           storage.Store
	maxUploadBytes  int64
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, extractor *extraction.Extractor, store storage.Store, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		extractor:       extractor,
		store:           store,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Analyze handles POST /api/documents/analyze. The uploaded file lives in
// temporary storage only for the duration of the request.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "NO_FILE", "No file uploaded")
		return
	}
	defer file.Close()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the maximum upload size")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	format, ok := formatByExtension[ext]
	if !ok {
		respondError(c, http.StatusBadRequest, "UNSUPPORTED_TYPE", "Unsupported file type")
		return
	}

	var reader io.Reader = file
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "READ_FAILED", "Could not read uploaded file")
		return
	}
	if h.maxUploadBytes > 0 && int64(len(data)) > h.maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the maximum upload size")
		return
	}

	ctx := c.Request.Context()
	key, err := h.store.Put(ctx, uuid.New(), header.Filename, bytes.NewReader(data))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_FAILED", "Could not store uploaded file")
		return
	}
	defer func() {
		if err := h.store.Remove(ctx, key); err != nil {
			log.Printf("Warning: failed to remove upload %s: %v", key, err)
		}
	}()

	text, err := h.extractor.Extract(ctx, data, format)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "EXTRACTION_FAILED", "Could not read document")
		return
	}

	report, err := h.analysisService.Analyze(ctx, text, format)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge, "DOCUMENT_TOO_LARGE", err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "ANALYSIS_FAILED", "Document analysis failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
