package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/domain/authz"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type FeedbackInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type FeedbackService interface {
	Submit(ctx context.Context, registrationID uuid.UUID, input FeedbackInput) (*types.Feedback, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]types.Feedback, error)
}

type feedbackService struct {
	db               *gorm.DB
	log              *logger.Logger
	sessionRepo      repos.TrainingSessionRepo
	registrationRepo repos.RegistrationRepo
	feedbackRepo     repos.FeedbackRepo
}

func NewFeedbackService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.TrainingSessionRepo,
	registrationRepo repos.RegistrationRepo,
	feedbackRepo repos.FeedbackRepo,
) FeedbackService {
	return &feedbackService{
		db:               db,
		log:              log.With("service", "FeedbackService"),
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
		feedbackRepo:     feedbackRepo,
	}
}

// Submit accepts feedback only from the owning trainee of a confirmed (or
// since-completed) registration, once per registration.
func (fs *feedbackService) Submit(ctx context.Context, registrationID uuid.UUID, input FeedbackInput) (*types.Feedback, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apierr.Validationf("rating must be between 1 and 5")
	}

	reg, err := fs.registrationRepo.GetByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("registration %s not found", registrationID))
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}

	confirmed := reg.Status == types.RegistrationConfirmed || reg.Status == types.RegistrationCompleted
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{TraineeID: reg.UserID, RegistrationConfirmed: confirmed}
	if !authz.Can(actor, authz.ActionSubmitFeedback, target) {
		return nil, apierr.Authorization(errors.New("feedback requires your own confirmed registration"))
	}

	if _, err := fs.feedbackRepo.GetByRegistration(ctx, nil, registrationID); err == nil {
		return nil, apierr.Validationf("feedback already submitted for this registration")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing feedback: %w", err)
	}

	row := &types.Feedback{
		ID:             uuid.New(),
		RegistrationID: registrationID,
		Rating:         input.Rating,
		Comment:        input.Comment,
	}
	err = fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fs.feedbackRepo.Create(ctx, tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return row, nil
}

// ListBySession returns the feedback for a session's registrations, visible
// to whoever may view the roster.
func (fs *feedbackService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]types.Feedback, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	session, err := fs.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{
		SessionCoordinatorID: session.CoordinatorID,
		SessionTrainerID:     session.TrainerID,
	}
	if !authz.Can(actor, authz.ActionViewRoster, target) {
		return nil, apierr.Authorization(fmt.Errorf("role %s may not view session feedback", rd.Role))
	}

	regs, err := fs.registrationRepo.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.ID)
	}
	return fs.feedbackRepo.ListByRegistrations(ctx, nil, ids)
}
