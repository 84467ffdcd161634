package notifications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) error {
	query :=
		`INSERT INTO notifications (id, recipient_id, actor_id, type, post_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `
	if _, err := r.db.ExecContext(ctx, query, n.ID, n.RecipientID, n.ActorID, string(n.Type), n.PostID, n.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteMatching(ctx context.Context, recipientID, actorID string, typ models.NotificationType, postID string) (int64, error) {
	query :=
		`DELETE FROM notifications
		 WHERE recipient_id = $1 AND actor_id = $2 AND type = $3`
	args := []any{recipientID, actorID, string(typ)}
	if postID != "" {
		query += ` AND post_id = $4`
		args = append(args, postID)
	}
	return r.exec(ctx, query, args...)
}

func (r *PostgresRepository) DeleteForPost(ctx context.Context, postID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM notifications WHERE post_id = $1`, postID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error) {
	query := `SELECT id, recipient_id, actor_id, type, post_id, created_at FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		var (
			n   models.Notification
			typ string
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ActorID, &typ, &n.PostID, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = models.NotificationType(typ)
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
