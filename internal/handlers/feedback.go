package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/services"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (fh *FeedbackHandler) Submit(c *gin.Context) {
	registrationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.FeedbackInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validationf("invalid request body"))
		return
	}
	feedback, err := fh.feedbackService.Submit(c.Request.Context(), registrationID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"feedback": feedback})
}

func (fh *FeedbackHandler) ListBySession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "sessionId")
	if !ok {
		return
	}
	feedbacks, err := fh.feedbackService.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"feedback": feedbacks})
}
