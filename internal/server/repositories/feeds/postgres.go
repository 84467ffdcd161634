package feeds

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

const (
	feedColumns = 4

	// MaxRowsPerInsert keeps one INSERT under the 65535 bind parameters
	// Postgres accepts.
	MaxRowsPerInsert = 65535 / feedColumns
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, userIDs []string, entry models.FeedEntry) error {
	return r.insert(ctx, len(userIDs), func(i int) []any {
		return []any{userIDs[i], entry.PostID, entry.AuthorID, entry.CreatedAt}
	})
}

func (r *PostgresRepository) AddMany(ctx context.Context, userID string, entries []models.FeedEntry) error {
	return r.insert(ctx, len(entries), func(i int) []any {
		e := entries[i]
		return []any{userID, e.PostID, e.AuthorID, e.CreatedAt}
	})
}

// insert writes n rows in as few statements as the parameter limit allows.
// Chunks already written stay written when a later one fails; inserts are
// idempotent so the caller may simply retry.
func (r *PostgresRepository) insert(ctx context.Context, n int, row func(i int) []any) error {
	for start := 0; start < n; start += MaxRowsPerInsert {
		end := min(start+MaxRowsPerInsert, n)

		args := make([]any, 0, (end-start)*feedColumns)
		for i := start; i < end; i++ {
			args = append(args, row(i)...)
		}

		query := `INSERT INTO feed_entries (user_id, post_id, author_id, created_at) VALUES ` +
			dbx.ValuesRows(end-start, feedColumns) + ` ON CONFLICT (user_id, post_id) DO NOTHING`

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userIDs []string, entry models.FeedEntry) error {
	if len(userIDs) == 0 {
		return nil
	}
	args := make([]any, 0, len(userIDs)+1)
	args = append(args, entry.PostID)
	for _, id := range userIDs {
		args = append(args, id)
	}
	query := `DELETE FROM feed_entries WHERE post_id = $1 AND user_id IN (` + dbx.Placeholders(2, len(userIDs)) + `)`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveAuthor(ctx context.Context, userID, authorID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM feed_entries WHERE user_id = $1 AND author_id = $2`, userID, authorID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit, offset int) ([]models.FeedEntry, error) {
	query := `SELECT post_id, author_id, created_at FROM feed_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, post_id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.FeedEntry
	for rows.Next() {
		var e models.FeedEntry
		if err := rows.Scan(&e.PostID, &e.AuthorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
