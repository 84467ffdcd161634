// Package graph abstracts the social graph behind Store, with a Postgres
// implementation over the follows table and a Neo4j one.
package graph

import "context"

// Store is the directed follow graph. Follow and Unfollow are idempotent
// and report whether the edge actually changed.
type Store interface {
	Follow(ctx context.Context, followerID, followeeID string) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
	Counts(ctx context.Context, userID string) (followers int64, following int64, err error)
	// StreamFollowers hands the followers of userID to yield in batches of
	// at most batchSize. A yield error stops the stream and is returned.
	StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}
