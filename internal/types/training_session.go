package types

import (
	"time"

	"github.com/google/uuid"
)

// TrainingSession is a scheduled training event. Date holds the calendar day;
// StartTime and EndTime are wall-clock "HH:MM" strings in the server
// location. Whether a session is finished is computed from these via
// domain/schedule, never stored.
type TrainingSession struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SkillName       string        `gorm:"not null;column:skill_name" json:"skill_name"`
	Description     string        `gorm:"column:description" json:"description"`
	Date            time.Time     `gorm:"type:date;not null;column:date" json:"date"`
	StartTime       string        `gorm:"type:varchar(5);not null;column:start_time" json:"start_time"`
	EndTime         string        `gorm:"type:varchar(5);not null;column:end_time" json:"end_time"`
	Location        string        `gorm:"column:location" json:"location"`
	MaxParticipants int           `gorm:"not null;column:max_participants" json:"max_participants"`
	Status          SessionStatus `gorm:"type:varchar(16);not null;default:'active';column:status" json:"status"`
	CoordinatorID   uuid.UUID     `gorm:"type:uuid;not null;index;column:coordinator_id" json:"coordinator_id"`
	TrainerID       *uuid.UUID    `gorm:"type:uuid;index;column:trainer_id" json:"trainer_id"`
	CategoryID      *uuid.UUID    `gorm:"type:uuid;index;column:category_id" json:"category_id"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`

	Courses       []Course       `gorm:"foreignKey:TrainingSessionID" json:"courses,omitempty"`
	Registrations []Registration `gorm:"foreignKey:TrainingSessionID" json:"registrations,omitempty"`
	Category      *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Trainer       *User          `gorm:"foreignKey:TrainerID" json:"trainer,omitempty"`
}

func (TrainingSession) TableName() string {
	return "training_sessions"
}
