package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type CourseContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.CourseContent) error
	Save(ctx context.Context, tx *gorm.DB, row *types.CourseContent) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CourseContent, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]types.CourseContent, error)
}

type courseContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseContentRepo(db *gorm.DB, baseLog *logger.Logger) CourseContentRepo {
	return &courseContentRepo{db: db, log: baseLog.With("repo", "CourseContentRepo")}
}

func (r *courseContentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.CourseContent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *courseContentRepo) Save(ctx context.Context, tx *gorm.DB, row *types.CourseContent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *courseContentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.CourseContent{}).Error
}

func (r *courseContentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CourseContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.CourseContent
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *courseContentRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]types.CourseContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.CourseContent
	if err := transaction.WithContext(ctx).
		Where("training_course_id = ?", courseID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
