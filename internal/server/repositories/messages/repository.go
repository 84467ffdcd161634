// Package messages stores direct messages between two users.
package messages

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Message) error
	// ListConversation returns the messages exchanged between a and b in
	// either direction, newest first.
	ListConversation(ctx context.Context, a, b string, limit, offset int) ([]*models.Message, error)
	// ListConversations returns the latest message of every conversation
	// userID takes part in, most recent conversation first.
	ListConversations(ctx context.Context, userID string, limit int) ([]*models.Message, error)
}
