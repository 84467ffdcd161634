// Package passwordresets stores the single-use tokens that let a user set a
// new password without knowing the old one.
package passwordresets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid until now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns the reset behind token, or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.PasswordReset, error)

	// DeleteForUser drops every outstanding reset of userID.
	DeleteForUser(ctx context.Context, userID string) error
}
