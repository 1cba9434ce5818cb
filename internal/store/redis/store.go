package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Store implements domain.Repository on Redis.
//
// Each bookmark is a JSON document under BookmarkKey(id); KeyAllBookmarks
// keeps the ids ordered for listing and KeyBookmarkSeq hands out ids.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

var _ domain.Repository = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
	}
}

// InsertBookmark assigns the next id and stores the bookmark.
func (s *Store) InsertBookmark(ctx context.Context, b domain.Bookmark) (domain.Bookmark, error) {
	id, err := s.client.Incr(ctx, KeyBookmarkSeq).Result()
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to allocate bookmark id: %w", err)
	}
	b.ID = id
	b.DateInserted = s.now().UTC()

	data, err := json.Marshal(b)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BookmarkKey(id), data, 0)
		pipe.ZAdd(ctx, KeyAllBookmarks, redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return b, nil
}

// GetByID retrieves a bookmark from Redis by ID
func (s *Store) GetByID(ctx context.Context, id int64) (domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, fmt.Errorf("%w: %d", domain.ErrNotFound, id)
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return b, nil
}

// GetAllBookmarks retrieves all bookmarks ordered by id
func (s *Store) GetAllBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	ids, err := s.client.ZRange(ctx, KeyAllBookmarks, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(ids))
	if len(ids) == 0 {
		return bookmarks, nil
	}

	keys := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bookmark id %q in index: %w", raw, err)
		}
		keys = append(keys, BookmarkKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	for i, v := range values {
		// Deleted between ZRANGE and MGET
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected value type %T for %s", v, keys[i])
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(str), &b); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bookmark %s: %w", keys[i], err)
		}
		bookmarks = append(bookmarks, b)
	}

	return bookmarks, nil
}

// DeleteBookmark removes a bookmark and its index entry.
func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, BookmarkKey(id))
		pipe.ZRem(ctx, KeyAllBookmarks, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrNotFound, id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
