// Package events publishes domain events and push requests to a message
// broker. Delivery is best effort: callers log failures and move on.
package events

import (
	"context"
	"time"
)

const (
	SubjectPostCreated         = "post.created"
	SubjectPostDeleted         = "post.deleted"
	SubjectNotificationCreated = "notification.created"
	SubjectPushDeliver         = "push.deliver"
	SubjectMessageSent         = "message.sent"
	SubjectPasswordReset       = "password.reset_requested"
)

// Bus publishes a JSON-encoded payload on subject.
type Bus interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

// keyed payloads choose their own partition key.
type keyed interface {
	EventKey() string
}

func keyOf(payload any) string {
	if k, ok := payload.(keyed); ok {
		return k.EventKey()
	}
	return ""
}

type PostCreated struct {
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (e PostCreated) EventKey() string { return e.AuthorID }

type PostDeleted struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

func (e PostDeleted) EventKey() string { return e.AuthorID }

type NotificationCreated struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	ActorID     string    `json:"actor_id"`
	Type        string    `json:"type"`
	PostID      string    `json:"post_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e NotificationCreated) EventKey() string { return e.RecipientID }

type MessageSent struct {
	ID        string    `json:"id"`
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (e MessageSent) EventKey() string { return e.ToID }

// PasswordResetRequested carries the one-time token to the mail worker,
// which owns delivery to Email.
type PasswordResetRequested struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e PasswordResetRequested) EventKey() string { return e.UserID }

// Push asks the delivery worker to send a device notification.
type Push struct {
	DeviceToken string            `json:"device_token"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
}

func (e Push) EventKey() string { return e.DeviceToken }

// NopBus drops every event.
type NopBus struct{}

func (NopBus) Publish(context.Context, string, any) error { return nil }
func (NopBus) Close() error                               { return nil }
