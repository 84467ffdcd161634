// Package feeds stores materialized feed entries: one pointer per
// (reader, post), ordered by the post's creation time.
package feeds

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

// Repository is implemented by the Postgres table here and by the Redis
// timeline store. All writes are idempotent.
type Repository interface {
	// Add places entry into the feed of every user in userIDs.
	Add(ctx context.Context, userIDs []string, entry models.FeedEntry) error
	// AddMany places entries into a single user's feed.
	AddMany(ctx context.Context, userID string, entries []models.FeedEntry) error
	// Remove drops entry from the feed of every user in userIDs.
	Remove(ctx context.Context, userIDs []string, entry models.FeedEntry) error
	// RemoveAuthor drops every entry by authorID from userID's feed.
	RemoveAuthor(ctx context.Context, userID, authorID string) error
	// List returns a page of userID's feed, newest first.
	List(ctx context.Context, userID string, limit, offset int) ([]models.FeedEntry, error)
}
