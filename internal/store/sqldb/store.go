package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const (
	// DefaultMaxOpenConns is used when Options.MaxOpenConns is not set
	DefaultMaxOpenConns = 10
	// DefaultConnMaxLifetime bounds how long a pooled connection lives
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultPingTimeout is the timeout for the initial ping
	DefaultPingTimeout = 5 * time.Second
)

// Options configures Open.
type Options struct {
	Driver       string // DriverSQLite or DriverPostgres
	DSN          string // sqlite file path / ":memory:" or postgres URL
	MaxOpenConns int
}

// Store implements domain.Repository on a SQL database.
type Store struct {
	db *sqlx.DB
}

var _ domain.Repository = (*Store)(nil)

// Open connects, configures the pool and pings the database.
func Open(ctx context.Context, opts Options) (*Store, error) {
	db, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	lifetime := DefaultConnMaxLifetime
	// Every connection to an in-memory sqlite database sees its own empty
	// database, so the pool is pinned to a single connection that never expires.
	if opts.Driver == DriverSQLite && isMemoryDSN(opts.DSN) {
		maxOpen = 1
		lifetime = 0
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(lifetime)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// New wraps an existing connection (tests use sqlmock here).
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// EnsureSchema creates the bookmarks table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	var ddl string
	switch s.db.DriverName() {
	case DriverPostgres:
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL CHECK (rating BETWEEN 0 AND 5),
			date_inserted TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL CHECK (rating BETWEEN 0 AND 5),
			date_inserted TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create bookmarks table: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, title, url, description, rating, date_inserted FROM bookmarks`

// GetAllBookmarks returns every bookmark ordered by id.
func (s *Store) GetAllBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	bookmarks := []domain.Bookmark{}
	if err := s.db.SelectContext(ctx, &bookmarks, selectColumns+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// GetByID returns domain.ErrNotFound when no row matches.
func (s *Store) GetByID(ctx context.Context, id int64) (domain.Bookmark, error) {
	var b domain.Bookmark
	err := s.db.GetContext(ctx, &b, s.db.Rebind(selectColumns+` WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Bookmark{}, fmt.Errorf("%w: %d", domain.ErrNotFound, id)
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return b, nil
}

// InsertBookmark stores b and returns it with the assigned id and timestamp.
func (s *Store) InsertBookmark(ctx context.Context, b domain.Bookmark) (domain.Bookmark, error) {
	b.DateInserted = time.Now().UTC().Truncate(time.Microsecond)

	query := s.db.Rebind(`INSERT INTO bookmarks (title, url, description, rating, date_inserted)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := s.db.QueryRowxContext(ctx, query,
		b.Title, b.URL, b.Description, b.Rating, b.DateInserted,
	).Scan(&b.ID); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return b, nil
}

// DeleteBookmark returns domain.ErrNotFound when no row was removed.
func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bookmarks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", domain.ErrNotFound, id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
