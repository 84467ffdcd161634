package messages

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) error {
	query :=
		`INSERT INTO messages (id, from_id, to_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.FromID, m.ToID, m.Text, m.CreatedAt); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListConversation(ctx context.Context, a, b string, limit, offset int) ([]*models.Message, error) {
	query := `SELECT id, from_id, to_id, text, created_at FROM messages
		WHERE (from_id = $1 AND to_id = $2) OR (from_id = $2 AND to_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, a, b, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanMessages(rows)
}

func (r *PostgresRepository) ListConversations(ctx context.Context, userID string, limit int) ([]*models.Message, error) {
	query := `SELECT id, from_id, to_id, text, created_at FROM (
			SELECT DISTINCT ON (CASE WHEN from_id = $1 THEN to_id ELSE from_id END)
				id, from_id, to_id, text, created_at
			FROM messages
			WHERE from_id = $1 OR to_id = $1
			ORDER BY CASE WHEN from_id = $1 THEN to_id ELSE from_id END, created_at DESC, id DESC
		) latest
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*models.Message, error) {
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.FromID, &m.ToID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
