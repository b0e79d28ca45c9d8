package model

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationWarning NotificationKind = "warning"
	NotificationInfo    NotificationKind = "info"
)

// DefaultDuration is how long a toast of this kind stays visible
func (k NotificationKind) DefaultDuration() time.Duration {
	switch k {
	case NotificationError:
		return 7 * time.Second
	case NotificationWarning:
		return 6 * time.Second
	default:
		return 5 * time.Second
	}
}

// Notification is a transient user-facing message
type Notification struct {
	ID         string           `json:"id"`
	Kind       NotificationKind `json:"kind"`
	Title      string           `json:"title,omitempty"`
	Message    string           `json:"message"`
	DurationMs int64            `json:"duration_ms"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NotificationEvent is what subscribers receive. Type is "notification" or "clear".
type NotificationEvent struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
}

const (
	EventNotification = "notification"
	EventClear        = "clear"
)
