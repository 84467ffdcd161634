// Package likes stores like memberships. The primary key is (post, user);
// the secondary index on user doubles as the per-user like record.
package likes

import "context"

type Repository interface {
	// Add records the like and reports whether it was new.
	Add(ctx context.Context, postID, userID string) (bool, error)
	// Remove deletes the like and reports whether one existed.
	Remove(ctx context.Context, postID, userID string) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
	// ListUsers returns who liked postID, most recent first.
	ListUsers(ctx context.Context, postID string) ([]string, error)
	// ListPosts returns the posts userID liked, most recent first.
	ListPosts(ctx context.Context, userID string) ([]string, error)
	DeleteForPost(ctx context.Context, postID string) (int64, error)
}
