package models

import (
	"time"
)

type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeverityWarning NotificationSeverity = "warning"
	SeverityError   NotificationSeverity = "error"
	SeveritySuccess NotificationSeverity = "success"
)

// Notification is a transient in-app alert. Alerts live only in memory for
// the lifetime of the process and are never persisted.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Severity  NotificationSeverity `json:"severity"`
	Read      bool                 `json:"read"`
	Action    string               `json:"action,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}
