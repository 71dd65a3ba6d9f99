package types

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RegistrationID uuid.UUID `gorm:"type:uuid;not null;index;column:registration_id" json:"registration_id"`
	Rating         int       `gorm:"not null;column:rating" json:"rating"`
	Comment        string    `gorm:"type:text;column:comment" json:"comment"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
