package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

func TestNewStore(t *testing.T) {
	s := NewStore()
	list, err := s.GetAllBookmarks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestInsertGetDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a, err := s.InsertBookmark(ctx, domain.Bookmark{Title: "a", URL: "https://a.ext", Rating: 1})
	require.NoError(t, err)
	b, err := s.InsertBookmark(ctx, domain.Bookmark{Title: "b", URL: "https://b.ext", Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.DateInserted.IsZero())

	got, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	require.NoError(t, s.DeleteBookmark(ctx, 1))
	_, err = s.GetByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBookmark(ctx, 1), domain.ErrNotFound)

	// ids are not reused after a delete
	c, err := s.InsertBookmark(ctx, domain.Bookmark{Title: "c", URL: "https://c.ext", Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
	all, err := s.GetAllBookmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetAllOrderedByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		_, err := s.InsertBookmark(ctx, domain.Bookmark{Title: fmt.Sprint(i), URL: "https://x.ext"})
		require.NoError(t, err)
	}

	list, err := s.GetAllBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 20)
	for i, b := range list {
		assert.Equal(t, int64(i+1), b.ID)
	}
}

func TestConcurrentInserts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.InsertBookmark(ctx, domain.Bookmark{Title: "t", URL: "https://x.ext"})
		}()
	}
	wg.Wait()

	list, err := s.GetAllBookmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
	assert.Equal(t, int64(50), list[49].ID)
}

func TestClosed(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Close())

	assert.Error(t, s.Ping(ctx))
	_, err := s.GetAllBookmarks(ctx)
	assert.Error(t, err)
	_, err = s.GetByID(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	_, err = s.InsertBookmark(ctx, domain.Bookmark{})
	assert.Error(t, err)
	assert.Error(t, s.DeleteBookmark(ctx, 1))
}
