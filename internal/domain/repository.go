package domain

import "context"

// Repository is the persistence collaborator used by the HTTP handlers and
// the seed importer. Implementations live under internal/store.
type Repository interface {
	// GetAllBookmarks returns every bookmark ordered by id.
	GetAllBookmarks(ctx context.Context) ([]Bookmark, error)
	// GetByID returns ErrNotFound (wrapped) when the id does not exist.
	GetByID(ctx context.Context, id int64) (Bookmark, error)
	// InsertBookmark stores b and returns it with ID and DateInserted set.
	InsertBookmark(ctx context.Context, b Bookmark) (Bookmark, error)
	// DeleteBookmark returns ErrNotFound (wrapped) when nothing was removed.
	DeleteBookmark(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}
