package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/clients/media"
	"github.com/trainhub/trainhub-backend/internal/domain/authz"
	"github.com/trainhub/trainhub-backend/internal/domain/content"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

// ResolvedContent pairs the current content row with its render mode so the
// frontend can dispatch without re-deriving the type rules.
type ResolvedContent struct {
	Content *types.CourseContent `json:"content"`
	Mode    content.RenderMode   `json:"mode"`
}

type ContentService interface {
	GetCurrent(ctx context.Context, courseID uuid.UUID) (ResolvedContent, error)
	// Save stores text and video content. The create-vs-update branch comes
	// from the resolver: no current content means create.
	Save(ctx context.Context, courseID uuid.UUID, contentType types.ContentType, payload string) (*types.CourseContent, error)
	// SaveUpload stores file and image content through the media store and
	// records the public URL as the payload.
	SaveUpload(ctx context.Context, courseID uuid.UUID, contentType types.ContentType, filename string, raw []byte) (*types.CourseContent, error)
	Delete(ctx context.Context, contentID uuid.UUID) error
}

type contentService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.TrainingSessionRepo
	courseRepo  repos.CourseRepo
	contentRepo repos.CourseContentRepo
	store       media.Store
}

func NewContentService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.TrainingSessionRepo,
	courseRepo repos.CourseRepo,
	contentRepo repos.CourseContentRepo,
	store media.Store,
) ContentService {
	return &contentService{
		db:          db,
		log:         log.With("service", "ContentService"),
		sessionRepo: sessionRepo,
		courseRepo:  courseRepo,
		contentRepo: contentRepo,
		store:       store,
	}
}

func (cs *contentService) GetCurrent(ctx context.Context, courseID uuid.UUID) (ResolvedContent, error) {
	if _, err := cs.loadCourse(ctx, courseID); err != nil {
		return ResolvedContent{}, err
	}
	rows, err := cs.contentRepo.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return ResolvedContent{}, fmt.Errorf("list course contents: %w", err)
	}
	current := content.Current(rows)
	return ResolvedContent{Content: current, Mode: content.Mode(current)}, nil
}

func (cs *contentService) Save(ctx context.Context, courseID uuid.UUID, contentType types.ContentType, payload string) (*types.CourseContent, error) {
	switch contentType {
	case types.ContentText, types.ContentVideo:
	default:
		return nil, apierr.Validationf("type %s requires an upload", contentType)
	}
	if strings.TrimSpace(payload) == "" {
		return nil, apierr.Validationf("content payload is required")
	}
	return cs.save(ctx, courseID, contentType, payload)
}

func (cs *contentService) SaveUpload(ctx context.Context, courseID uuid.UUID, contentType types.ContentType, filename string, raw []byte) (*types.CourseContent, error) {
	switch contentType {
	case types.ContentFile, types.ContentImage:
	default:
		return nil, apierr.Validationf("type %s does not take an upload", contentType)
	}
	if len(raw) == 0 {
		return nil, apierr.Validationf("uploaded file is empty")
	}
	key := fmt.Sprintf("course_content/%s/%d%s", courseID.String(), time.Now().UnixNano(), path.Ext(filename))
	if err := cs.store.Save(ctx, key, bytes.NewReader(raw)); err != nil {
		return nil, apierr.Upstream(fmt.Errorf("store upload: %w", err))
	}
	return cs.save(ctx, courseID, contentType, cs.store.PublicURL(key))
}

func (cs *contentService) save(ctx context.Context, courseID uuid.UUID, contentType types.ContentType, payload string) (*types.CourseContent, error) {
	course, err := cs.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := cs.authorizeEdit(ctx, course); err != nil {
		return nil, err
	}
	if !contentType.Valid() {
		return nil, apierr.Validationf("unknown content type %q", contentType)
	}

	var result *types.CourseContent
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, lErr := cs.contentRepo.ListByCourse(ctx, tx, courseID)
		if lErr != nil {
			return fmt.Errorf("list course contents: %w", lErr)
		}
		existing := content.Current(rows)
		switch content.DecideSave(existing) {
		case content.SaveCreate:
			row := &types.CourseContent{
				ID:               uuid.New(),
				TrainingCourseID: courseID,
				Type:             contentType,
				Content:          payload,
			}
			if cErr := cs.contentRepo.Create(ctx, tx, row); cErr != nil {
				return fmt.Errorf("create course content: %w", cErr)
			}
			result = row
		case content.SaveUpdate:
			existing.Type = contentType
			existing.Content = payload
			if sErr := cs.contentRepo.Save(ctx, tx, existing); sErr != nil {
				return fmt.Errorf("update course content: %w", sErr)
			}
			result = existing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (cs *contentService) Delete(ctx context.Context, contentID uuid.UUID) error {
	row, err := cs.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound(fmt.Errorf("content %s not found", contentID))
		}
		return fmt.Errorf("load content: %w", err)
	}
	course, err := cs.loadCourse(ctx, row.TrainingCourseID)
	if err != nil {
		return err
	}
	if err := cs.authorizeEdit(ctx, course); err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.contentRepo.Delete(ctx, tx, contentID)
	})
}

func (cs *contentService) authorizeEdit(ctx context.Context, course *types.Course) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Authorization(errors.New("no authenticated user"))
	}
	session, err := cs.sessionRepo.GetByID(ctx, nil, course.TrainingSessionID)
	if err != nil {
		return fmt.Errorf("load owning session: %w", err)
	}
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{
		SessionCoordinatorID: session.CoordinatorID,
		SessionTrainerID:     session.TrainerID,
	}
	if !authz.Can(actor, authz.ActionEditContent, target) {
		return apierr.Authorization(fmt.Errorf("role %s may not edit this content", rd.Role))
	}
	return nil
}

func (cs *contentService) loadCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	course, err := cs.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("course %s not found", courseID))
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	return course, nil
}
