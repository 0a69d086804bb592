package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification in-app message. Maps to notifications.
type Notification struct {
	NotificationID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string         `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type           string         `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string         `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string         `gorm:"type:text;not null"                             json:"content"`
	Data           datatypes.JSON `gorm:"type:jsonb"                                     json:"data,omitempty"`
	RelatedType    *string        `gorm:"type:varchar(30)"                               json:"related_type,omitempty"` // donation | donation_request | request_fb | feedback
	RelatedID      *string        `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	SoftDeleteModel
}

// TableName overrides the gorm default.
func (Notification) TableName() string { return "notifications" }
