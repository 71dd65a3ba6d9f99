package types

import (
	"time"

	"github.com/google/uuid"
)

// Registration is a trainee's request to attend a session. Rows are never
// hard-deleted; the approval lifecycle only moves Status along the edges the
// state machine allows, so history stays available to the aggregates.
type Registration struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uq_registration_user_session;column:user_id" json:"user_id"`
	TrainingSessionID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uq_registration_user_session;column:training_session_id" json:"training_session_id"`
	Status            RegistrationStatus `gorm:"type:varchar(16);not null;default:'pending';column:status" json:"status"`
	RegisteredAt      time.Time          `gorm:"not null;column:registered_at" json:"registered_at"`
	CreatedAt         time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"not null" json:"updated_at"`

	User    *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Session *TrainingSession `gorm:"foreignKey:TrainingSessionID" json:"session,omitempty"`
}

func (Registration) TableName() string {
	return "registrations"
}
