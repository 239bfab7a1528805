package model

import "time"

// NotificationKind classifies deadline and payment alerts.
type NotificationKind string

const (
	KindOverdue    NotificationKind = "overdue"
	KindPayOverdue NotificationKind = "pay-overdue"
	KindWarn       NotificationKind = "warn"
	KindPayWarn    NotificationKind = "pay-warn"
)

// NotificationID derives the identifier of the alert of the given kind for a
// project. The same pair always yields the same id, which is what keeps
// repeated deadline scans from creating duplicates.
func NotificationID(kind NotificationKind, projectID string) string {
	return string(kind) + ":" + projectID
}

// Notification is a derived, user-facing alert about a project.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Date      time.Time        `json:"date"`
	IsRead    bool             `json:"isRead"`
	ProjectID string           `json:"projectId"`
}
