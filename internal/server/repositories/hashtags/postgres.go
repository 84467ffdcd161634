package hashtags

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photofeed/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, postID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	args := make([]any, 0, len(tags)*2)
	for _, tag := range tags {
		args = append(args, tag, postID)
	}
	query := `INSERT INTO post_hashtags (tag, post_id) VALUES ` + dbx.ValuesRows(len(tags), 2) +
		` ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListPosts(ctx context.Context, tag string) ([]string, error) {
	query := `SELECT h.post_id FROM post_hashtags h
		JOIN posts p ON p.id = h.post_id
		WHERE h.tag = $1
		ORDER BY p.created_at DESC, p.id`

	rows, err := r.db.QueryContext(ctx, query, tag)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteForPost(ctx context.Context, postID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_hashtags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
