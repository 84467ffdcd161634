package posts

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListByOwner returns the owner's posts, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
	// AdjustLikes adds delta to the like counter and returns the new value.
	// A zero delta just reads the counter.
	AdjustLikes(ctx context.Context, id string, delta int64) (int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
