// Package comments stores append-only post comments.
package comments

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Comment) error
	// ListForPost returns the comments of postID, newest first.
	ListForPost(ctx context.Context, postID string) ([]*models.Comment, error)
}
