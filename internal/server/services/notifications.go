package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/caption"
	"github.com/dmitrijs2005/photofeed/internal/server/events"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/google/uuid"
)

type NotificationService struct {
	deps   Deps
	pusher *events.Pusher
}

func NewNotificationService(d Deps) *NotificationService {
	d = d.withDefaults()
	d.Logger = d.Logger.With("module", "notifications")
	return &NotificationService{deps: d, pusher: events.NewPusher(d.Bus)}
}

// Notify appends a notification to the recipient's inbox and asks for a
// device push. Self-actions and unknown recipients are silently dropped.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID string, typ models.NotificationType, postID string) error {
	if recipientID == "" || recipientID == actorID {
		return nil
	}
	if !typ.Valid() {
		return fmt.Errorf("%w: notification type %q", common.ErrValidation, typ)
	}

	conn := s.deps.DB.Conn()
	recipient, err := s.deps.Repos.Users(conn).GetByID(ctx, recipientID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        typ,
		PostID:      postID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.deps.Repos.Notifications(conn).Create(ctx, n); err != nil {
		return err
	}
	s.deps.Metrics.Notification(string(typ))

	publish(ctx, s.deps, events.SubjectNotificationCreated, events.NotificationCreated{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		Type:        string(n.Type),
		PostID:      n.PostID,
		CreatedAt:   n.CreatedAt,
	})
	s.push(ctx, recipient, n)
	return nil
}

func (s *NotificationService) push(ctx context.Context, recipient *models.User, n *models.Notification) {
	if recipient.DeviceToken == "" {
		return
	}

	actorName := "Someone"
	if actor, err := s.deps.Repos.Users(s.deps.DB.Conn()).GetByID(ctx, n.ActorID); err == nil {
		actorName = actor.Username
	}

	data := map[string]string{"notification_id": n.ID, "type": string(n.Type)}
	if n.PostID != "" {
		data["post_id"] = n.PostID
	}
	if err := s.pusher.Send(ctx, recipient.DeviceToken, "photofeed", pushBody(actorName, n.Type), data); err != nil {
		s.deps.Metrics.PublishFailed(events.SubjectPushDeliver)
		s.deps.Logger.Warn(ctx, "push failed", "recipient_id", recipient.ID, "error", err)
	}
}

func pushBody(actor string, typ models.NotificationType) string {
	switch typ {
	case models.NotificationLike:
		return actor + " liked your post"
	case models.NotificationFollow:
		return actor + " started following you"
	case models.NotificationComment:
		return actor + " commented on your post"
	default:
		return actor + " mentioned you"
	}
}

// Revoke removes every notification matching recipient, actor, type and,
// when postID is set, post. It is the inverse of Notify and a no-op when
// nothing matches.
func (s *NotificationService) Revoke(ctx context.Context, recipientID, actorID string, typ models.NotificationType, postID string) error {
	if recipientID == "" || recipientID == actorID {
		return nil
	}
	n, err := s.deps.Repos.Notifications(s.deps.DB.Conn()).DeleteMatching(ctx, recipientID, actorID, typ, postID)
	if err != nil {
		return err
	}
	s.deps.Logger.Debug(ctx, "notifications revoked", "recipient_id", recipientID, "type", typ, "count", n)
	return nil
}

// InboxFor returns the recipient's notifications, newest first.
func (s *NotificationService) InboxFor(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error) {
	if err := requireActor(recipientID); err != nil {
		return nil, err
	}
	return s.deps.Repos.Notifications(s.deps.DB.Conn()).ListForRecipient(ctx, recipientID, pageSize(limit))
}

// PurgePost deletes every notification that references postID.
func (s *NotificationService) PurgePost(ctx context.Context, postID string) (int64, error) {
	return s.deps.Repos.Notifications(s.deps.DB.Conn()).DeleteForPost(ctx, postID)
}

// NotifyMentions sends a mention to every @handle in text that resolves to
// a user. Failures are logged per handle.
func (s *NotificationService) NotifyMentions(ctx context.Context, actorID, text, postID string) {
	users := s.deps.Repos.Users(s.deps.DB.Conn())
	for _, handle := range caption.Mentions(text) {
		u, err := users.GetByUsername(ctx, handle)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				s.deps.Logger.Warn(ctx, "mention lookup failed", "handle", handle, "error", err)
			}
			continue
		}
		if err := s.Notify(ctx, u.ID, actorID, models.NotificationMention, postID); err != nil {
			s.deps.Logger.Warn(ctx, "mention notify failed", "recipient_id", u.ID, "error", err)
		}
	}
}
