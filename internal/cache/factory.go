package cache

import (
	"fmt"

	"github.com/scrypster/showscout/internal/config"
)

// NewStore creates the cache engine selected by configuration.
func NewStore(cfg config.CacheConfig) (Store, error) {
	switch cfg.Engine {
	case "", "file":
		return NewFileStore(cfg.Dir)
	case "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("cache: sqlite engine requires a DSN")
		}
		return NewSQLiteStore(cfg.DSN)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("cache: postgres engine requires a DSN")
		}
		return NewPostgresStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("cache: unsupported engine %q", cfg.Engine)
	}
}
