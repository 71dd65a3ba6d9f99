package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type RegistrationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Registration) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Registration, error)
	GetByUserAndSession(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) (*types.Registration, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]types.Registration, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.Registration, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]types.Registration, error)
	ListPendingByCoordinator(ctx context.Context, tx *gorm.DB, coordinatorID uuid.UUID) ([]types.Registration, error)
	ListByStatusAndSessions(ctx context.Context, tx *gorm.DB, status types.RegistrationStatus, sessionIDs []uuid.UUID) ([]types.Registration, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.RegistrationStatus) error
	CountHoldingSlot(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
}

type registrationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegistrationRepo(db *gorm.DB, baseLog *logger.Logger) RegistrationRepo {
	return &registrationRepo{db: db, log: baseLog.With("repo", "RegistrationRepo")}
}

func (r *registrationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Registration) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *registrationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Registration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Registration
	if err := transaction.WithContext(ctx).
		Preload("Session").
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *registrationRepo) GetByUserAndSession(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) (*types.Registration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Registration
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND training_session_id = ?", userID, sessionID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *registrationRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]types.Registration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Registration
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("training_session_id = ?", sessionID).
		Order("registered_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *registrationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.Registration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Registration
	if err := transaction.WithContext(ctx).
		Preload("Session").
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *registrationRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]types.Registration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Registration
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *registrationRepo) ListPendingByCoordinator(ctx context.Context, tx *gorm.DB, coordinatorID uuid.UUID) ([]types.Registration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Registration
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("Session").
		Joins("JOIN training_sessions ON training_sessions.id = registrations.training_session_id").
		Where("registrations.status = ? AND training_sessions.coordinator_id = ?", types.RegistrationPending, coordinatorID).
		Order("registrations.registered_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *registrationRepo) ListByStatusAndSessions(ctx context.Context, tx *gorm.DB, status types.RegistrationStatus, sessionIDs []uuid.UUID) ([]types.Registration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Registration
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("status = ? AND training_session_id IN ?", status, sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *registrationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.RegistrationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CountHoldingSlot counts pending+confirmed registrations, the ones bounded
// by max_participants. The enroll transaction calls this for its
// authoritative capacity re-check.
func (r *registrationRepo) CountHoldingSlot(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.Registration{}).
		Where("training_session_id = ? AND status IN ?", sessionID,
			[]types.RegistrationStatus{types.RegistrationPending, types.RegistrationConfirmed}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
