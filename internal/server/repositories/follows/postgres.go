package follows

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

func (r *PostgresRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	query :=
		`INSERT INTO follows (follower_id, followee_id)
		 VALUES ($1, $2)
		 ON CONFLICT (follower_id, followee_id) DO NOTHING
		 `
	res, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, `SELECT follower_id FROM follows WHERE followee_id = $1`, userID)
}

func (r *PostgresRepository) Following(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, `SELECT followee_id FROM follows WHERE follower_id = $1`, userID)
}

func (r *PostgresRepository) Counts(ctx context.Context, userID string) (int64, int64, error) {
	query := `SELECT
		(SELECT count(*) FROM follows WHERE followee_id = $1),
		(SELECT count(*) FROM follows WHERE follower_id = $1)`

	var followers, following int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&followers, &following); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return followers, following, nil
}

func (r *PostgresRepository) ids(ctx context.Context, query string, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
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
