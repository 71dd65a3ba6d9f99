package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func (ch *CourseHandler) Create(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "sessionId")
	if !ok {
		return
	}
	var req services.CourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validationf("invalid request body"))
		return
	}
	course, err := ch.courseService.Create(c.Request.Context(), sessionID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (ch *CourseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	var req services.CourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validationf("invalid request body"))
		return
	}
	course, err := ch.courseService.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (ch *CourseHandler) ListBySession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "sessionId")
	if !ok {
		return
	}
	courses, err := ch.courseService.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}
