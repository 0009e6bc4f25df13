package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/core"
	"vocabshare-backend-go/internal/models"
)

// VocabularyHandler handles vocabulary-related API endpoints.
type VocabularyHandler struct {
	vocabularyService core.VocabularyService
	logger            *zap.Logger
}

// NewVocabularyHandler creates a new VocabularyHandler.
func NewVocabularyHandler(vs core.VocabularyService, logger *zap.Logger) *VocabularyHandler {
	return &VocabularyHandler{vocabularyService: vs, logger: logger}
}

// CreateVocabulary handles POST /vocabularies.
func (h *VocabularyHandler) CreateVocabulary(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context", Code: codeUnauthenticated})
		return
	}

	var req models.CreateVocabularyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	vocabulary, err := h.vocabularyService.AddVocabulary(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.logger.Error("failed to add vocabulary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to add vocabulary"})
		return
	}

	c.JSON(http.StatusCreated, vocabulary)
}

// ListMyVocabularies handles GET /vocabularies/mine?cursor=.
// The cursor is the nextCursor of the previous page; an empty nextCursor in
// the response means pagination has ended.
func (h *VocabularyHandler) ListMyVocabularies(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context", Code: codeUnauthenticated})
		return
	}

	page, err := h.vocabularyService.GetMyVocabularies(c.Request.Context(), userID.(string), c.Query("cursor"))
	if err != nil {
		h.logger.Error("failed to list vocabularies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list vocabularies"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListLatestVocabularies handles GET /vocabularies/latest.
func (h *VocabularyHandler) ListLatestVocabularies(c *gin.Context) {
	vocabularies, err := h.vocabularyService.GetLatestVocabularies(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list latest vocabularies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list latest vocabularies"})
		return
	}

	c.JSON(http.StatusOK, vocabularies)
}

// StreamVocabularies handles GET /vocabularies/stream. It serves the
// reactive query as server-sent events: every change to the underlying
// collection emits a fresh enriched page. The subscription is torn down when
// the client disconnects.
func (h *VocabularyHandler) StreamVocabularies(c *gin.Context) {
	sub, err := h.vocabularyService.Subscribe(c.Request.Context(), c.Query("authorId"))
	if err != nil {
		h.logger.Error("failed to start vocabulary subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start stream"})
		return
	}
	defer sub.Cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case page, ok := <-sub.Pages():
			if !ok {
				return false
			}
			c.SSEvent("page", page)
			return true
		case err, ok := <-sub.Errs():
			if ok && err != nil {
				h.logger.Error("vocabulary stream failed", zap.Error(err))
			}
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}
