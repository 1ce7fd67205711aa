package domain

import "time"

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationWarning NotificationLevel = "warning"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a toast pushed to a connected dashboard. Channel is a coach
// id or a registration draft id.
type Notification struct {
	Channel   string            `json:"-"`
	Level     NotificationLevel `json:"level"`
	Event     string            `json:"event"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}
