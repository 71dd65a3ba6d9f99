package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/services"
)

type CompletionHandler struct {
	completionService services.CompletionService
}

func NewCompletionHandler(completionService services.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

func (ch *CompletionHandler) MarkComplete(c *gin.Context) {
	var req struct {
		CourseID string `json:"course_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validationf("invalid request body"))
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		RespondError(c, apierr.Validationf("invalid course_id"))
		return
	}
	completion, err := ch.completionService.MarkComplete(c.Request.Context(), courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"completion": completion})
}

func (ch *CompletionHandler) ListMine(c *gin.Context) {
	completions, err := ch.completionService.ListMine(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"completions": completions})
}
