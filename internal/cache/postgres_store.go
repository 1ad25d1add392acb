package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS research_cache (
	key       TEXT PRIMARY KEY,
	payload   JSONB NOT NULL,
	cached_at TIMESTAMPTZ NOT NULL
);`

// PostgresStore is a cache engine backed by PostgreSQL, for deployments that
// share one cache across multiple server instances.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database at dsn and ensures the cache
// schema exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: failed to connect to postgres: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: failed to create schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Load reads the record for key, treating missing rows, scan failures and
// key mismatches as a miss.
func (s *PostgresStore) Load(ctx context.Context, key string) (*Record, error) {
	if !validKey(key) {
		return nil, nil
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM research_cache WHERE key = $1", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("cache: postgres load failed for %s: %v", key, err)
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
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
func (s *PostgresStore) Save(ctx context.Context, key string, rec Record) {
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
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			payload   = excluded.payload,
			cached_at = excluded.cached_at
	`, key, payload, rec.CachedAt)
	if err != nil {
		log.Printf("cache: postgres save failed for %s: %v", key, err)
	}
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
