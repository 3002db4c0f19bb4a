package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeGeneral       NotificationType = "general"
	NotificationTypeMaintenance   NotificationType = "maintenance"
	NotificationTypeSecurityAlert NotificationType = "security_alert"
	NotificationTypeDataBreach    NotificationType = "data_breach"
)

// NotificationTypes lists every accepted broadcast type.
var NotificationTypes = []NotificationType{
	NotificationTypeGeneral,
	NotificationTypeMaintenance,
	NotificationTypeSecurityAlert,
	NotificationTypeDataBreach,
}

// Valid reports whether t is one of NotificationTypes.
func (t NotificationType) Valid() bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Notification is an admin broadcast visible to every user.
type Notification struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	Type      NotificationType `json:"type" gorm:"not null"`
	Title     string           `json:"title" gorm:"not null"`
	Content   string           `json:"content" gorm:"not null"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

// NotificationRead records that a user acknowledged a notification. The
// composite primary key allows one row per (notification, user).
type NotificationRead struct {
	NotificationID string    `gorm:"primaryKey" json:"notification_id"`
	UserID         string    `gorm:"primaryKey;index" json:"user_id"`
	ReadAt         time.Time `json:"read_at"`
}

// NotificationWithReadCount is the admin projection of a notification.
type NotificationWithReadCount struct {
	Notification
	ReadByCount int64 `json:"read_by_count"`
}
