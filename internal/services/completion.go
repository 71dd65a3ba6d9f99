package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type CompletionService interface {
	// MarkComplete is idempotent: marking an already-completed course again
	// returns the same single row.
	MarkComplete(ctx context.Context, courseID uuid.UUID) (*types.CourseCompletion, error)
	ListMine(ctx context.Context) ([]types.CourseCompletion, error)
}

type completionService struct {
	db               *gorm.DB
	log              *logger.Logger
	courseRepo       repos.CourseRepo
	registrationRepo repos.RegistrationRepo
	completionRepo   repos.CourseCompletionRepo
}

func NewCompletionService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	registrationRepo repos.RegistrationRepo,
	completionRepo repos.CourseCompletionRepo,
) CompletionService {
	return &completionService{
		db:               db,
		log:              log.With("service", "CompletionService"),
		courseRepo:       courseRepo,
		registrationRepo: registrationRepo,
		completionRepo:   completionRepo,
	}
}

func (cs *completionService) MarkComplete(ctx context.Context, courseID uuid.UUID) (*types.CourseCompletion, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}

	course, err := cs.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("course %s not found", courseID))
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	// Only a trainee with a confirmed or completed registration on the
	// owning session may mark the course complete.
	reg, err := cs.registrationRepo.GetByUserAndSession(ctx, nil, rd.UserID, course.TrainingSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Authorization(errors.New("no registration on the owning session"))
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}
	switch reg.Status {
	case types.RegistrationConfirmed, types.RegistrationCompleted:
	default:
		return nil, apierr.Authorization(fmt.Errorf("registration is %s, completion requires a confirmed place", reg.Status))
	}

	now := time.Now()
	row := &types.CourseCompletion{
		ID:               uuid.New(),
		UserID:           rd.UserID,
		TrainingCourseID: courseID,
		Status:           types.CompletionCompleted,
		CompletedAt:      &now,
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.completionRepo.Upsert(ctx, tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert completion: %w", err)
	}

	// Re-read so the caller sees the surviving row, not the candidate the
	// upsert may have discarded.
	saved, err := cs.completionRepo.GetByUserAndCourse(ctx, nil, rd.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("load completion: %w", err)
	}
	return saved, nil
}

func (cs *completionService) ListMine(ctx context.Context) ([]types.CourseCompletion, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	return cs.completionRepo.ListByUser(ctx, nil, rd.UserID)
}
