package types

import (
	"time"

	"github.com/google/uuid"
)

// CourseCompletion is unique per (user, course); marking complete twice must
// never produce a second row. The uniqueness is enforced by a composite
// index in addition to the service-level upsert.
type CourseCompletion struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_completion_user_course;column:user_id" json:"user_id"`
	TrainingCourseID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_completion_user_course;column:training_course_id" json:"training_course_id"`
	Status           CompletionStatus `gorm:"type:varchar(16);not null;default:'in_progress';column:status" json:"status"`
	CompletedAt      *time.Time       `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null" json:"updated_at"`
}

func (CourseCompletion) TableName() string {
	return "course_completions"
}
