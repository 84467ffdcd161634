package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
	NotificationComment NotificationType = "comment"
	NotificationMention NotificationType = "mention"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationFollow, NotificationComment, NotificationMention:
		return true
	}
	return false
}

// Notification is a lightweight inbox record. PostID is empty for follows.
type Notification struct {
	ID          string
	RecipientID string
	ActorID     string
	Type        NotificationType
	PostID      string
	CreatedAt   time.Time
}
