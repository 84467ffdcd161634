package messages

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var columns = []string{"id", "from_id", "to_id", "text", "created_at"}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)^INSERT\s+INTO\s+messages\s*\(id,\s*from_id,\s*to_id,\s*text,\s*created_at\)`
	mock.ExpectExec(q).WithArgs("m1", "ann", "bob", "hi", now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("m2", "ann", "gone", "hi", now).WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectExec(q).WithArgs("m3", "ann", "bob", "hi", now).WillReturnError(errors.New("conn reset"))

	require.NoError(t, repo.Create(context.Background(), &models.Message{ID: "m1", FromID: "ann", ToID: "bob", Text: "hi", CreatedAt: now}))

	err := repo.Create(context.Background(), &models.Message{ID: "m2", FromID: "ann", ToID: "gone", Text: "hi", CreatedAt: now})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = repo.Create(context.Background(), &models.Message{ID: "m3", FromID: "ann", ToID: "bob", Text: "hi", CreatedAt: now})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListConversation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(columns).
		AddRow("m2", "bob", "ann", "hey back", now).
		AddRow("m1", "ann", "bob", "hey", now.Add(-time.Minute))
	mock.ExpectQuery(`(?s)FROM messages\s+WHERE \(from_id = \$1 AND to_id = \$2\) OR \(from_id = \$2 AND to_id = \$1\)\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$3 OFFSET \$4`).
		WithArgs("ann", "bob", 20, 0).
		WillReturnRows(rows)

	got, err := repo.ListConversation(context.Background(), "ann", "bob", 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "bob", got[0].FromID)
	assert.Equal(t, "m1", got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListConversations(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(columns).
		AddRow("m9", "cat", "ann", "latest from cat", now).
		AddRow("m4", "ann", "bob", "latest to bob", now.Add(-time.Hour))
	mock.ExpectQuery(`(?s)SELECT DISTINCT ON \(CASE WHEN from_id = \$1 THEN to_id ELSE from_id END\).*WHERE from_id = \$1 OR to_id = \$1.*\) latest\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$2`).
		WithArgs("ann", 50).
		WillReturnRows(rows)

	got, err := repo.ListConversations(context.Background(), "ann", 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cat", got[0].PartnerID("ann"))
	assert.Equal(t, "bob", got[1].PartnerID("ann"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM messages`).WillReturnError(errors.New("boom"))

	_, err := repo.ListConversation(context.Background(), "ann", "bob", 20, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
