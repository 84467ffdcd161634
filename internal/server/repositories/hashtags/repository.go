// Package hashtags maintains the tag -> post reverse index.
package hashtags

import "context"

type Repository interface {
	// Add indexes postID under every tag; already indexed pairs are skipped.
	Add(ctx context.Context, postID string, tags []string) error
	// ListPosts returns the ids of posts carrying tag, newest post first.
	ListPosts(ctx context.Context, tag string) ([]string, error)
	DeleteForPost(ctx context.Context, postID string) error
}
