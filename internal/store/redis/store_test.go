package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client)
	fixed := time.Date(2020, 9, 25, 21, 28, 14, 225000000, time.UTC)
	store.now = func() time.Time { return fixed }
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestInsertAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.InsertBookmark(ctx, domain.Bookmark{
		Title:       "MDN",
		URL:         "https://developer.mozilla.org",
		Description: "The only place to find web documentation",
		Rating:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "2020-09-25T21:28:14.225Z", created.DateInserted.Format(time.RFC3339Nano))
	assert.True(t, mr.Exists(BookmarkKey(1)))

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.DateInserted.Equal(got.DateInserted))
	got.DateInserted = created.DateInserted
	assert.Equal(t, created, got)
}

func TestGetAllBookmarksOrdered(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	list, err := store.GetAllBookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	titles := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	for _, title := range titles {
		_, err := store.InsertBookmark(ctx, domain.Bookmark{Title: title, URL: "https://x.ext", Rating: 1})
		require.NoError(t, err)
	}

	list, err = store.GetAllBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(titles))
	for i, b := range list {
		assert.Equal(t, int64(i+1), b.ID)
		assert.Equal(t, titles[i], b.Title)
	}
}

func TestGetAllSkipsDanglingIndexEntries(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.InsertBookmark(ctx, domain.Bookmark{Title: "keep", URL: "https://x.ext", Rating: 1})
	require.NoError(t, err)
	gone, err := store.InsertBookmark(ctx, domain.Bookmark{Title: "gone", URL: "https://x.ext", Rating: 1})
	require.NoError(t, err)
	mr.Del(BookmarkKey(gone.ID))

	list, err := store.GetAllBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].Title)
}

func TestDeleteBookmark(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.InsertBookmark(ctx, domain.Bookmark{Title: "t", URL: "https://x.ext", Rating: 2})
	require.NoError(t, err)

	require.NoError(t, store.DeleteBookmark(ctx, created.ID))
	assert.False(t, mr.Exists(BookmarkKey(created.ID)))

	_, err = store.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.DeleteBookmark(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	members, err := mr.ZMembers(KeyAllBookmarks)
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	_, err := store.GetByID(ctx, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = store.InsertBookmark(ctx, domain.Bookmark{Title: "t", URL: "https://x.ext", Rating: 2})
	assert.Error(t, err)
	assert.Error(t, store.Ping(ctx))
}

func TestBookmarkKey(t *testing.T) {
	assert.Equal(t, "marks:bookmark:42", BookmarkKey(42))
}
