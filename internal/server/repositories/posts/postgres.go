// Package posts stores posts together with their denormalized like counter.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

// Hashtags are folded into one space-separated column so a post loads in a
// single row.
const selectPost = `SELECT p.id, p.owner_id, p.image_url, p.caption, p.likes, p.created_at,
		COALESCE((SELECT string_agg(h.tag, ' ' ORDER BY h.tag) FROM post_hashtags h WHERE h.post_id = p.id), '')
		FROM posts p`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) error {
	query :=
		`INSERT INTO posts (id, owner_id, image_url, caption, likes, created_at)
		 VALUES ($1, $2, $3, $4, 0, $5)
		 `
	if _, err := r.db.ExecContext(ctx, query, post.ID, post.OwnerID, post.ImageURL, post.Caption, post.CreatedAt); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPost+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC, p.id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) AdjustLikes(ctx context.Context, id string, delta int64) (int64, error) {
	query :=
		`UPDATE posts SET likes = likes + $2
		 WHERE id = $1
		 RETURNING likes
		 `

	var likes int64
	if err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&likes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return likes, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM posts WHERE owner_id = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	post := &models.Post{}
	var tags string
	if err := s.Scan(&post.ID, &post.OwnerID, &post.ImageURL, &post.Caption, &post.Likes, &post.CreatedAt, &tags); err != nil {
		return nil, err
	}
	post.Hashtags = strings.Fields(tags)
	return post, nil
}
