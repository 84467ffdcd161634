package users

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetDeviceToken(ctx context.Context, id string, token string) error
	SetPasswordHash(ctx context.Context, id string, hash string) error
	Search(ctx context.Context, prefix string, limit int) ([]*models.User, error)
}
