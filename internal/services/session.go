package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/domain/authz"
	"github.com/trainhub/trainhub-backend/internal/domain/schedule"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

// SessionInput is the mutable surface of a training session. Times are
// wall-clock "HH:MM" strings, validated through the schedule package.
type SessionInput struct {
	SkillName       string     `json:"skill_name"`
	Description     string     `json:"description"`
	Date            time.Time  `json:"date"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time"`
	Location        string     `json:"location"`
	MaxParticipants int        `json:"max_participants"`
	TrainerID       *uuid.UUID `json:"trainer_id"`
	CategoryID      *uuid.UUID `json:"category_id"`
}

type SessionService interface {
	Create(ctx context.Context, input SessionInput) (*types.TrainingSession, error)
	Update(ctx context.Context, id uuid.UUID, input SessionInput) (*types.TrainingSession, error)
	Archive(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*types.TrainingSession, error)
	ListActive(ctx context.Context) ([]types.TrainingSession, error)
	ListAll(ctx context.Context) ([]types.TrainingSession, error)
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.TrainingSessionRepo
}

func NewSessionService(db *gorm.DB, log *logger.Logger, sessionRepo repos.TrainingSessionRepo) SessionService {
	return &sessionService{
		db:          db,
		log:         log.With("service", "SessionService"),
		sessionRepo: sessionRepo,
	}
}

func validateSessionInput(input SessionInput) error {
	if input.SkillName == "" {
		return apierr.Validationf("skill_name is required")
	}
	if input.Date.IsZero() {
		return apierr.Validationf("date is required")
	}
	if input.MaxParticipants <= 0 {
		return apierr.Validationf("max_participants must be positive")
	}
	if _, err := schedule.Combine(input.Date, input.StartTime); err != nil {
		return apierr.Validationf("invalid start_time %q", input.StartTime)
	}
	if _, err := schedule.Combine(input.Date, input.EndTime); err != nil {
		return apierr.Validationf("invalid end_time %q", input.EndTime)
	}
	return nil
}

func (ss *sessionService) Create(ctx context.Context, input SessionInput) (*types.TrainingSession, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	if !authz.Can(actor, authz.ActionEditSession, authz.Target{SessionCoordinatorID: rd.UserID}) {
		return nil, apierr.Authorization(fmt.Errorf("role %s may not create sessions", rd.Role))
	}
	if err := validateSessionInput(input); err != nil {
		return nil, err
	}

	session := &types.TrainingSession{
		ID:              uuid.New(),
		SkillName:       input.SkillName,
		Description:     input.Description,
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Location:        input.Location,
		MaxParticipants: input.MaxParticipants,
		Status:          types.SessionActive,
		CoordinatorID:   rd.UserID,
		TrainerID:       input.TrainerID,
		CategoryID:      input.CategoryID,
	}
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ss.sessionRepo.Create(ctx, tx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (ss *sessionService) Update(ctx context.Context, id uuid.UUID, input SessionInput) (*types.TrainingSession, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	session, err := ss.loadVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{SessionCoordinatorID: session.CoordinatorID, SessionTrainerID: session.TrainerID}
	if !authz.Can(actor, authz.ActionEditSession, target) {
		return nil, apierr.Authorization(fmt.Errorf("role %s may not edit sessions", rd.Role))
	}
	if err := validateSessionInput(input); err != nil {
		return nil, err
	}

	session.SkillName = input.SkillName
	session.Description = input.Description
	session.Date = input.Date
	session.StartTime = input.StartTime
	session.EndTime = input.EndTime
	session.Location = input.Location
	session.MaxParticipants = input.MaxParticipants
	session.TrainerID = input.TrainerID
	session.CategoryID = input.CategoryID

	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ss.sessionRepo.Save(ctx, tx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

// Archive is the soft delete. Registrations and history stay in place; the
// session just stops being visible to active listings and enrollment.
func (ss *sessionService) Archive(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Authorization(errors.New("no authenticated user"))
	}
	session, err := ss.loadVisible(ctx, id)
	if err != nil {
		return err
	}
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{SessionCoordinatorID: session.CoordinatorID, SessionTrainerID: session.TrainerID}
	if !authz.Can(actor, authz.ActionEditSession, target) {
		return apierr.Authorization(fmt.Errorf("role %s may not archive sessions", rd.Role))
	}
	session.Status = types.SessionArchived
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ss.sessionRepo.Save(ctx, tx, session)
	})
}

func (ss *sessionService) Get(ctx context.Context, id uuid.UUID) (*types.TrainingSession, error) {
	session, err := ss.sessionRepo.GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("session %s not found", id))
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Status == types.SessionArchived {
		return nil, apierr.NotFound(fmt.Errorf("session %s not found", id))
	}
	return session, nil
}

func (ss *sessionService) ListActive(ctx context.Context) ([]types.TrainingSession, error) {
	return ss.sessionRepo.ListActive(ctx, nil)
}

// ListAll includes archived sessions and is reserved for admin views.
func (ss *sessionService) ListAll(ctx context.Context) ([]types.TrainingSession, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	switch rd.Role {
	case types.RoleAdmin, types.RoleSuperAdmin:
		return ss.sessionRepo.ListAll(ctx, nil)
	default:
		return nil, apierr.Authorization(fmt.Errorf("role %s may not list all sessions", rd.Role))
	}
}

func (ss *sessionService) loadVisible(ctx context.Context, id uuid.UUID) (*types.TrainingSession, error) {
	session, err := ss.sessionRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("session %s not found", id))
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Status == types.SessionArchived {
		return nil, apierr.NotFound(fmt.Errorf("session %s not found", id))
	}
	return session, nil
}
