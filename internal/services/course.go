package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/domain/authz"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type CourseInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationHours int    `json:"duration_hours"`
}

type CourseService interface {
	Create(ctx context.Context, sessionID uuid.UUID, input CourseInput) (*types.Course, error)
	Update(ctx context.Context, courseID uuid.UUID, input CourseInput) (*types.Course, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]types.Course, error)
}

type courseService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.TrainingSessionRepo
	courseRepo  repos.CourseRepo
}

func NewCourseService(db *gorm.DB, log *logger.Logger, sessionRepo repos.TrainingSessionRepo, courseRepo repos.CourseRepo) CourseService {
	return &courseService{
		db:          db,
		log:         log.With("service", "CourseService"),
		sessionRepo: sessionRepo,
		courseRepo:  courseRepo,
	}
}

func (cs *courseService) authorizeEdit(ctx context.Context, session *types.TrainingSession) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Authorization(errors.New("no authenticated user"))
	}
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{
		SessionCoordinatorID: session.CoordinatorID,
		SessionTrainerID:     session.TrainerID,
	}
	if !authz.Can(actor, authz.ActionEditCourse, target) {
		return apierr.Authorization(fmt.Errorf("role %s may not edit courses on this session", rd.Role))
	}
	return nil
}

func (cs *courseService) Create(ctx context.Context, sessionID uuid.UUID, input CourseInput) (*types.Course, error) {
	session, err := cs.loadVisibleSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cs.authorizeEdit(ctx, session); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.Validationf("course title is required")
	}
	if input.DurationHours <= 0 {
		return nil, apierr.Validationf("duration_hours must be positive")
	}
	course := &types.Course{
		ID:                uuid.New(),
		Title:             title,
		Description:       input.Description,
		DurationHours:     input.DurationHours,
		IsActive:          true,
		TrainingSessionID: sessionID,
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.courseRepo.Create(ctx, tx, course)
	})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

func (cs *courseService) Update(ctx context.Context, courseID uuid.UUID, input CourseInput) (*types.Course, error) {
	course, err := cs.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("course %s not found", courseID))
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	session, err := cs.loadVisibleSession(ctx, course.TrainingSessionID)
	if err != nil {
		return nil, err
	}
	if err := cs.authorizeEdit(ctx, session); err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		course.Title = title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.DurationHours > 0 {
		course.DurationHours = input.DurationHours
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.courseRepo.Save(ctx, tx, course)
	})
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

func (cs *courseService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]types.Course, error) {
	if _, err := cs.loadVisibleSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return cs.courseRepo.ListBySession(ctx, nil, sessionID)
}

func (cs *courseService) loadVisibleSession(ctx context.Context, sessionID uuid.UUID) (*types.TrainingSession, error) {
	session, err := cs.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Status == types.SessionArchived {
		return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
	}
	return session, nil
}
