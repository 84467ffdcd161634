// Package notifications persists per-recipient inbox records.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) error
	// DeleteMatching removes every notification with the given key and
	// returns how many were removed. An empty postID matches any post.
	DeleteMatching(ctx context.Context, recipientID, actorID string, typ models.NotificationType, postID string) (int64, error)
	DeleteForPost(ctx context.Context, postID string) (int64, error)
	// ListForRecipient returns the inbox newest first.
	ListForRecipient(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error)
}
