package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type TrainingSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.TrainingSession) error
	Save(ctx context.Context, tx *gorm.DB, row *types.TrainingSession) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingSession, error)
	GetByIDLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingSession, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingSession, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]types.TrainingSession, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]types.TrainingSession, error)
	ListByCoordinator(ctx context.Context, tx *gorm.DB, coordinatorID uuid.UUID) ([]types.TrainingSession, error)
	ListActiveEndingBy(ctx context.Context, tx *gorm.DB, day time.Time) ([]types.TrainingSession, error)
}

type trainingSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainingSessionRepo(db *gorm.DB, baseLog *logger.Logger) TrainingSessionRepo {
	return &trainingSessionRepo{db: db, log: baseLog.With("repo", "TrainingSessionRepo")}
}

func (r *trainingSessionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.TrainingSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *trainingSessionRepo) Save(ctx context.Context, tx *gorm.DB, row *types.TrainingSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *trainingSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.TrainingSession
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByIDLocked re-reads the session under a SELECT ... FOR UPDATE row lock
// so concurrent enroll transactions serialize on it and each one counts
// committed rows. sqlite has no FOR UPDATE; its single-writer model already
// serializes the transactions.
func (r *trainingSessionRepo) GetByIDLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx)
	if transaction.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.TrainingSession
	if err := query.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *trainingSessionRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.TrainingSession
	if err := transaction.WithContext(ctx).
		Preload("Courses").
		Preload("Courses.Contents").
		Preload("Registrations").
		Preload("Category").
		Preload("Trainer").
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListActive excludes archived sessions; they are invisible to every
// active-session view.
func (r *trainingSessionRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]types.TrainingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.TrainingSession
	if err := transaction.WithContext(ctx).
		Preload("Category").
		Preload("Trainer").
		Where("status = ?", types.SessionActive).
		Order("date ASC, start_time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trainingSessionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]types.TrainingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.TrainingSession
	if err := transaction.WithContext(ctx).
		Preload("Category").
		Preload("Trainer").
		Order("date ASC, start_time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trainingSessionRepo) ListByCoordinator(ctx context.Context, tx *gorm.DB, coordinatorID uuid.UUID) ([]types.TrainingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.TrainingSession
	if err := transaction.WithContext(ctx).
		Where("coordinator_id = ?", coordinatorID).
		Order("date ASC, start_time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListActiveEndingBy returns active sessions whose calendar date is on or
// before day. The sweeper applies the time-of-day cut itself via
// schedule.Ended; the query only narrows the candidate set.
func (r *trainingSessionRepo) ListActiveEndingBy(ctx context.Context, tx *gorm.DB, day time.Time) ([]types.TrainingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.TrainingSession
	if err := transaction.WithContext(ctx).
		Where("status = ? AND date <= ?", types.SessionActive, day).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
