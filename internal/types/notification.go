package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID            `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Title     string               `gorm:"not null;column:title" json:"title"`
	Message   string               `gorm:"type:text;column:message" json:"message"`
	IsRead    bool                 `gorm:"not null;default:false;column:is_read" json:"is_read"`
	Priority  NotificationPriority `gorm:"type:varchar(16);not null;default:'normal';column:priority" json:"priority"`
	Data      datatypes.JSON       `gorm:"column:data" json:"data,omitempty"`
	CreatedAt time.Time            `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
