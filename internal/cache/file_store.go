package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore is the default cache engine: one JSON file per record under a
// configured root directory. Writes go to a temp file and are published with
// an atomic rename, so readers never observe a partial record.
type FileStore struct {
	root string
}

// NewFileStore creates a file-backed store rooted at dir, creating it if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to resolve root %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("cache: failed to create root %s: %w", abs, err)
	}
	return &FileStore{root: abs}, nil
}

// path resolves the physical location for a key, rejecting any key whose
// resolved path would escape the store root.
func (s *FileStore) path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("cache: invalid key %q", key)
	}
	p := filepath.Join(s.root, key+".json")
	resolved, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("cache: failed to resolve %s: %w", p, err)
	}
	if !strings.HasPrefix(resolved, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("cache: key %q resolves outside store root", key)
	}
	return resolved, nil
}

// Load reads the record for key. Missing files, unreadable payloads and
// key self-check mismatches are all treated as a miss.
func (s *FileStore) Load(_ context.Context, key string) (*Record, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("cache: discarding unreadable record %s: %v", key, err)
		return nil, nil
	}
	if rec.Key != key {
		log.Printf("cache: discarding record with mismatched key (want %s, stored %s)", key, rec.Key)
		return nil, nil
	}
	return &rec, nil
}

// Save publishes the record for key atomically. Failures are logged and
// swallowed: a cache write is an optimization, not a correctness requirement.
func (s *FileStore) Save(_ context.Context, key string, rec Record) {
	p, err := s.path(key)
	if err != nil {
		log.Printf("cache: rejecting save: %v", err)
		return
	}

	rec.Key = key
	rec.CachedAt = time.Now().UTC()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Printf("cache: failed to encode record %s: %v", key, err)
		return
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("cache: failed to write %s: %v", tmp, err)
		return
	}
	if err := os.Rename(tmp, p); err != nil {
		log.Printf("cache: failed to publish %s: %v", p, err)
		os.Remove(tmp)
	}
}

// Close is a no-op for the file engine.
func (s *FileStore) Close() error { return nil }
