package types

import (
	"time"

	"github.com/google/uuid"
)

// CourseContent is polymorphic over Type: Content holds a text blob for
// text, a URL for video, and a media-store key for file and image uploads.
type CourseContent struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TrainingCourseID uuid.UUID   `gorm:"type:uuid;not null;index;column:training_course_id" json:"training_course_id"`
	Type             ContentType `gorm:"type:varchar(16);not null;column:type" json:"type"`
	Content          string      `gorm:"type:text;not null;column:content" json:"content"`
	CreatedAt        time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null" json:"updated_at"`
}

func (CourseContent) TableName() string {
	return "course_contents"
}
