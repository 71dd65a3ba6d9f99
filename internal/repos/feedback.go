package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Feedback) error
	GetByRegistration(ctx context.Context, tx *gorm.DB, registrationID uuid.UUID) (*types.Feedback, error)
	ListByRegistrations(ctx context.Context, tx *gorm.DB, registrationIDs []uuid.UUID) ([]types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (r *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Feedback) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *feedbackRepo) GetByRegistration(ctx context.Context, tx *gorm.DB, registrationID uuid.UUID) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Feedback
	if err := transaction.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *feedbackRepo) ListByRegistrations(ctx context.Context, tx *gorm.DB, registrationIDs []uuid.UUID) ([]types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Feedback
	if len(registrationIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("registration_id IN ?", registrationIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
