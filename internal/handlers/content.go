package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/services"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (ch *ContentHandler) GetCurrent(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	resolved, err := ch.contentService.GetCurrent(c.Request.Context(), courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, resolved)
}

// Save handles text and video payloads as JSON.
func (ch *ContentHandler) Save(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	var req struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validationf("invalid request body"))
		return
	}
	row, err := ch.contentService.Save(c.Request.Context(), courseID, types.ContentType(req.Type), req.Content)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"content": row})
}

// Upload handles file and image payloads as multipart form data with a
// "content" file part and a "type" field. The course id comes from the URL
// like every other content route.
func (ch *ContentHandler) Upload(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	contentType := types.ContentType(c.PostForm("type"))
	fileHeader, err := c.FormFile("content")
	if err != nil {
		RespondError(c, apierr.Validationf("content file is required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, apierr.Validationf("could not open uploaded file"))
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, apierr.Validationf("could not read uploaded file"))
		return
	}
	row, err := ch.contentService.SaveUpload(c.Request.Context(), courseID, contentType, fileHeader.Filename, raw)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"content": row})
}

func (ch *ContentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ch.contentService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "content deleted"})
}
