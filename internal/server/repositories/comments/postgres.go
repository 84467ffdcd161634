package comments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) error {
	query :=
		`INSERT INTO comments (id, post_id, author_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.PostID, c.AuthorID, c.Text, c.CreatedAt); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `SELECT id, post_id, author_id, text, created_at FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
