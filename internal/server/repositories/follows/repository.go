// Package follows stores the directed follow graph in Postgres.
package follows

import "context"

type Repository interface {
	// Create adds the edge and reports whether it was new.
	Create(ctx context.Context, followerID, followeeID string) (bool, error)
	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
	Counts(ctx context.Context, userID string) (followers int64, following int64, err error)
}
