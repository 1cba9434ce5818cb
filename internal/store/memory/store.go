// Package memory keeps bookmarks in process memory. Nothing survives a
// restart; it backs MARKS_STORE=memory for demos and local runs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Store implements domain.Repository on a map guarded by a RWMutex.
type Store struct {
	mu        sync.RWMutex
	bookmarks map[int64]domain.Bookmark
	nextID    int64
	closed    bool
	now       func() time.Time
}

var _ domain.Repository = (*Store)(nil)

var errClosed = errors.New("memory store is closed")

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		bookmarks: make(map[int64]domain.Bookmark),
		now:       time.Now,
	}
}

// GetAllBookmarks returns a copy of every bookmark, ordered by id.
func (s *Store) GetAllBookmarks(_ context.Context) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	out := make([]domain.Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.Bookmark{}, errClosed
	}

	b, ok := s.bookmarks[id]
	if !ok {
		return domain.Bookmark{}, fmt.Errorf("bookmark %d: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

// InsertBookmark assigns the next id. Ids are never reused.
func (s *Store) InsertBookmark(_ context.Context, b domain.Bookmark) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Bookmark{}, errClosed
	}

	s.nextID++
	b.ID = s.nextID
	b.DateInserted = s.now().UTC()
	s.bookmarks[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBookmark(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	if _, ok := s.bookmarks[id]; !ok {
		return fmt.Errorf("bookmark %d: %w", id, domain.ErrNotFound)
	}
	delete(s.bookmarks, id)
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
