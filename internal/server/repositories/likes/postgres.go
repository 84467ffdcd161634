package likes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, postID, userID string) (bool, error) {
	query :=
		`INSERT INTO post_likes (post_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (post_id, user_id) DO NOTHING
		 `
	res, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return changed(res.RowsAffected())
}

func (r *PostgresRepository) Remove(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return changed(res.RowsAffected())
}

func (r *PostgresRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context, postID string) ([]string, error) {
	return r.column(ctx, `SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at DESC`, postID)
}

func (r *PostgresRepository) ListPosts(ctx context.Context, userID string) ([]string, error) {
	return r.column(ctx, `SELECT post_id FROM post_likes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostgresRepository) DeleteForPost(ctx context.Context, postID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) column(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func changed(n int64, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
