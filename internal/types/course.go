package types

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string    `gorm:"not null;column:title" json:"title"`
	Description       string    `gorm:"column:description" json:"description"`
	DurationHours     int       `gorm:"not null;column:duration_hours" json:"duration_hours"`
	IsActive          bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	TrainingSessionID uuid.UUID `gorm:"type:uuid;not null;index;column:training_session_id" json:"training_session_id"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`

	Contents []CourseContent `gorm:"foreignKey:TrainingCourseID" json:"contents,omitempty"`
}

func (Course) TableName() string {
	return "training_courses"
}
