package blogs

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresRepository(db), mock
}

func blogColumns() []string {
	return []string{"id", "owner_id", "title", "category", "description", "subscribers", "version"}
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows(blogColumns()).
		AddRow("b1", "owner", "Go Notes", "tech", "notes", []byte(`["u2","u3"]`), int64(3))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, title, category, description, subscribers, version FROM blogs")).
		WithArgs("b1").
		WillReturnRows(rows)

	blog, err := repo.GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "owner", blog.OwnerID)
	assert.Equal(t, []string{"u2", "u3"}, blog.Subscribers)
	assert.Equal(t, int64(3), blog.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT").WithArgs("missing").WillReturnRows(sqlmock.NewRows(blogColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresUpdateFields(t *testing.T) {
	repo, mock := newMock(t)
	blog := &models.Blog{ID: "b1", Title: "Go Notes v2", Category: "tech", Description: "d"}

	t.Run("version matches", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs SET title = $2, category = $3, description = $4, version = version + 1")).
			WithArgs("b1", "Go Notes v2", "tech", "d", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateFields(context.Background(), blog, 3)
		require.NoError(t, err)
	})

	t.Run("stale version loses", func(t *testing.T) {
		mock.ExpectExec("UPDATE blogs SET title").
			WithArgs("b1", "Go Notes v2", "tech", "d", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateFields(context.Background(), blog, 2)
		assert.ErrorIs(t, err, common.ErrVersionConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAddSubscriber(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs SET subscribers = subscribers || to_jsonb($2::text)")).
			WithArgs("b1", "u2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AddSubscriber(context.Background(), "b1", "u2")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no-op when already subscribed", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE blogs SET subscribers").
			WithArgs("b1", "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT").WithArgs("b1").
			WillReturnRows(sqlmock.NewRows(blogColumns()).
				AddRow("b1", "owner", "t", "c", "d", []byte(`["u2"]`), int64(1)))

		err := repo.AddSubscriber(context.Background(), "b1", "u2")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing blog", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE blogs SET subscribers").
			WithArgs("gone", "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT").WithArgs("gone").
			WillReturnRows(sqlmock.NewRows(blogColumns()))

		err := repo.AddSubscriber(context.Background(), "gone", "u2")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestPostgresRemoveSubscriber(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs SET subscribers = subscribers - $2")).
		WithArgs("b1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RemoveSubscriber(context.Background(), "b1", "u2")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blogs WHERE id = $1")).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "b1"))

	mock.ExpectExec("DELETE FROM blogs").
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "b1"), common.ErrorNotFound)
}
