package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS research_cache (
	key       TEXT PRIMARY KEY,
	payload   TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL
);`

// SQLiteStore is a cache engine backed by a single SQLite table. Row
// replacement is atomic at the statement level, giving the same
// no-partial-records guarantee as the file engine's rename.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at dsn and ensures
// the cache schema exists.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to open sqlite database: %w", err)
	}

	// SQLite supports one concurrent writer; a single connection serialises
	// writes and avoids SQLITE_BUSY under concurrent artist completions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the record for key, treating missing rows, scan failures and
// key mismatches as a miss.
func (s *SQLiteStore) Load(ctx context.Context, key string) (*Record, error) {
	if !validKey(key) {
		return nil, nil
	}
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM research_cache WHERE key = ?", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("cache: sqlite load failed for %s: %v", key, err)
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		log.Printf("cache: discarding unreadable record %s: %v", key, err)
		return nil, nil
	}
	if rec.Key != key {
		log.Printf("cache: discarding record with mismatched key (want %s, stored %s)", key, rec.Key)
		return nil, nil
	}
	return &rec, nil
}

// Save upserts the record for key. Failures are logged and swallowed.
func (s *SQLiteStore) Save(ctx context.Context, key string, rec Record) {
	if !validKey(key) {
		log.Printf("cache: rejecting save for invalid key %q", key)
		return
	}

	rec.Key = key
	rec.CachedAt = time.Now().UTC()

	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("cache: failed to encode record %s: %v", key, err)
		return
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO research_cache (key, payload, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload   = excluded.payload,
			cached_at = excluded.cached_at
	`, key, string(payload), rec.CachedAt)
	if err != nil {
		log.Printf("cache: sqlite save failed for %s: %v", key, err)
	}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
