package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keshavsspppp/municipality/internal/usecase"
)

// CommentHandler handles comment grouping endpoints
type CommentHandler struct {
	uc usecase.CommentUsecase
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(uc usecase.CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

// AddCommentRequest is the body of POST /comment
type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddComment handles POST /comment
func (h *CommentHandler) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleUsecaseError(c, usecase.ErrInvalidComment)
		return
	}

	output, err := h.uc.AddComment(c.Request.Context(), req.Text)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetSummaries handles GET /summaries
func (h *CommentHandler) GetSummaries(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.uc.Summaries(c.Request.Context()))
}

// Clear handles POST /clear
func (h *CommentHandler) Clear(c *gin.Context) {
	h.uc.Clear(c.Request.Context())
	respondSuccess(c, http.StatusOK, gin.H{"message": "Storage cleared successfully"})
}
