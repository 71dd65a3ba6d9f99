package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type CourseCompletionRepo interface {
	// Upsert writes the row keyed on (user_id, training_course_id); marking
	// complete twice updates the one existing row instead of inserting.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.CourseCompletion) error
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CourseCompletion, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.CourseCompletion, error)
}

type courseCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseCompletionRepo(db *gorm.DB, baseLog *logger.Logger) CourseCompletionRepo {
	return &courseCompletionRepo{db: db, log: baseLog.With("repo", "CourseCompletionRepo")}
}

func (r *courseCompletionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.CourseCompletion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "training_course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "completed_at", "updated_at"}),
	}).Create(row).Error
}

func (r *courseCompletionRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CourseCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.CourseCompletion
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND training_course_id = ?", userID, courseID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *courseCompletionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.CourseCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.CourseCompletion
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
