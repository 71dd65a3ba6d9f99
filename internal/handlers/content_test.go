package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/services"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type fakeContentService struct {
	uploadCourseID uuid.UUID
	uploadType     types.ContentType
	uploadFilename string
	uploadRaw      []byte
}

func (f *fakeContentService) GetCurrent(ctx context.Context, courseID uuid.UUID) (services.ResolvedContent, error) {
	return services.ResolvedContent{}, nil
}

func (f *fakeContentService) Save(ctx context.Context, courseID uuid.UUID, contentType types.ContentType, payload string) (*types.CourseContent, error) {
	return &types.CourseContent{TrainingCourseID: courseID, Type: contentType, Content: payload}, nil
}

func (f *fakeContentService) SaveUpload(ctx context.Context, courseID uuid.UUID, contentType types.ContentType, filename string, raw []byte) (*types.CourseContent, error) {
	f.uploadCourseID = courseID
	f.uploadType = contentType
	f.uploadFilename = filename
	f.uploadRaw = raw
	return &types.CourseContent{ID: uuid.New(), TrainingCourseID: courseID, Type: contentType}, nil
}

func (f *fakeContentService) Delete(ctx context.Context, contentID uuid.UUID) error {
	return nil
}

func newUploadRouter(svc services.ContentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewContentHandler(svc)
	router.POST("/api/training-courses/:courseId/content/upload", handler.Upload)
	return router
}

func TestUploadReadsContentPartAndTypeField(t *testing.T) {
	fake := &fakeContentService{}
	router := newUploadRouter(fake)
	courseID := uuid.New()
	payload := []byte("png bytes")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("type", "image"); err != nil {
		t.Fatalf("write type field: %v", err)
	}
	part, err := form.CreateFormFile("content", "diagram.png")
	if err != nil {
		t.Fatalf("create content part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write content part: %v", err)
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/training-courses/"+courseID.String()+"/content/upload", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", rec.Code, rec.Body.String())
	}
	if fake.uploadCourseID != courseID {
		t.Fatalf("course id %s, want %s", fake.uploadCourseID, courseID)
	}
	if fake.uploadType != types.ContentImage {
		t.Fatalf("type %s, want image", fake.uploadType)
	}
	if fake.uploadFilename != "diagram.png" {
		t.Fatalf("filename %s, want diagram.png", fake.uploadFilename)
	}
	if !bytes.Equal(fake.uploadRaw, payload) {
		t.Fatalf("payload bytes did not reach the service")
	}
}

func TestUploadMissingContentPart(t *testing.T) {
	fake := &fakeContentService{}
	router := newUploadRouter(fake)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("type", "file"); err != nil {
		t.Fatalf("write type field: %v", err)
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/training-courses/"+uuid.New().String()+"/content/upload", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if envelope.Error.Code != "validation_error" {
		t.Fatalf("code %s, want validation_error", envelope.Error.Code)
	}
}
