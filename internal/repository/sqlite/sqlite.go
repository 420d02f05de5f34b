// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// no C toolchain is needed and ":memory:" databases make tests cheap.
//
// The schema carries the two invariants the application depends on as
// UNIQUE indexes: (title, created_by) on snippets and (user_id,
// snippet_id) on favorites. Application-level pre-checks exist only for
// friendlier error messages; these indexes are what actually holds under
// concurrent requests. Constraint violations are translated into domain
// errors here, in the store layer, so services never see driver errors.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The pool is shared by all requests; SQLite's WAL mode
// allows concurrent reads while a write is in flight.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs the
// schema migration. Use ":memory:" for an ephemeral test database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; a pool of them would
	// be a pool of separate empty databases.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent readers during writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right
// after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Snippets returns the snippet store backed by this pool.
func (db *DB) Snippets() *SnippetStore {
	return &SnippetStore{conn: db.conn}
}

// Favorites returns the favorite store backed by this pool.
func (db *DB) Favorites() *FavoriteStore {
	return &FavoriteStore{conn: db.conn}
}

// Users returns the user store backed by this pool.
func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

// Ping verifies the database is reachable. The health endpoint uses it.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// tags is a JSON array stored as text. The UNIQUE(title, created_by)
	// index is the authoritative duplicate-title guard.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			code       TEXT NOT NULL,
			language   TEXT NOT NULL,
			tags       TEXT NOT NULL DEFAULT '[]',
			created_by TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (title, created_by)
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_by ON snippets(created_by);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	// UNIQUE(user_id, snippet_id) keeps favoriting idempotent. Deleting
	// a snippet removes any favorites pointing at it.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			snippet_id TEXT NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, snippet_id)
		);
		CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces these as *sqlite.Error with the extended
// result code SQLITE_CONSTRAINT_UNIQUE.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
