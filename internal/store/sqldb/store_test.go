package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// newTestStore opens an in-memory sqlite store with the schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store, err := Open(ctx, Options{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(sqlx.NewDb(db, DriverSQLite)), mock
}

func fixtures() []domain.Bookmark {
	return []domain.Bookmark{
		{Title: "Thinkful", URL: "https://www.thinkful.com", Description: "Think outside the classroom", Rating: 5},
		{Title: "Google", URL: "https://www.google.com", Description: "Where we find everything else", Rating: 4},
		{Title: "MDN", URL: "https://developer.mozilla.org", Rating: 0},
	}
}

func TestInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	before := time.Now().UTC().Add(-time.Second)

	created, err := store.InsertBookmark(ctx, fixtures()[0])
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.True(t, created.DateInserted.After(before))

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Thinkful", got.Title)
	assert.Equal(t, "https://www.thinkful.com", got.URL)
	assert.Equal(t, "Think outside the classroom", got.Description)
	assert.Equal(t, 5, got.Rating)
	assert.True(t, created.DateInserted.Equal(got.DateInserted),
		"date_inserted %v != %v", created.DateInserted, got.DateInserted)
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.InsertBookmark(ctx, fixtures()[0])
	require.NoError(t, err)
	second, err := store.InsertBookmark(ctx, fixtures()[1])
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
}

func TestGetAllBookmarks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("empty table returns empty slice", func(t *testing.T) {
		list, err := store.GetAllBookmarks(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("returns all in id order", func(t *testing.T) {
		for _, b := range fixtures() {
			_, err := store.InsertBookmark(ctx, b)
			require.NoError(t, err)
		}

		list, err := store.GetAllBookmarks(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "Thinkful", list[0].Title)
		assert.Equal(t, "Google", list[1].Title)
		assert.Equal(t, "MDN", list[2].Title)
		assert.Equal(t, 0, list[2].Rating)
	})
}

func TestGetByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteBookmark(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.InsertBookmark(ctx, fixtures()[1])
	require.NoError(t, err)

	require.NoError(t, store.DeleteBookmark(ctx, created.ID))

	_, err = store.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.DeleteBookmark(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "second delete must report not found")
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	t.Run("list", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT id, title, url, description, rating, date_inserted FROM bookmarks").
			WillReturnError(boom)

		_, err := store.GetAllBookmarks(ctx)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("WHERE id = ?").WithArgs(int64(7)).WillReturnError(boom)

		_, err := store.GetByID(ctx, 7)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("INSERT INTO bookmarks").
			WithArgs("t", "https://a.ext", "", 3, sqlmock.AnyArg()).
			WillReturnError(boom)

		_, err := store.InsertBookmark(ctx, domain.Bookmark{Title: "t", URL: "https://a.ext", Rating: 3})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert returns id", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("INSERT INTO bookmarks").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		b, err := store.InsertBookmark(ctx, domain.Bookmark{Title: "t", URL: "https://a.ext", Rating: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(42), b.ID)
		assert.False(t, b.DateInserted.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM bookmarks").WithArgs(int64(3)).WillReturnError(boom)

		err := store.DeleteBookmark(ctx, 3)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete of missing row", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM bookmarks").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.DeleteBookmark(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsMemoryDSN(t *testing.T) {
	assert.True(t, isMemoryDSN(":memory:"))
	assert.True(t, isMemoryDSN("file:test?mode=memory&cache=shared"))
	assert.False(t, isMemoryDSN("marks.db"))
}
