// Package config provides configuration management for showscout.
// It loads settings from environment variables with the SHOWSCOUT_ prefix
// and provides sensible defaults for all configuration options. An optional
// YAML config file may overlay the environment (see LoadConfigFromFile).
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration settings for the showscout service.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	LLM      LLMConfig
	Search   SearchConfig
	Research ResearchConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 7380)
	Host string // Server host (default: 127.0.0.1)
	// CORSOrigins lists allowed origins for browser clients.
	CORSOrigins []string
	// RateLimitPerSec is the sustained request rate; RateLimitBurst the burst.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// CacheConfig contains cache store configuration.
type CacheConfig struct {
	Engine string // Cache engine: file, sqlite, postgres (default: file)
	Dir    string // Root directory for the file engine (default: ./data/cache)
	DSN    string // DSN for the sqlite/postgres engines
}

// LLMConfig contains reasoning-backend configuration.
type LLMConfig struct {
	OpenAIAPIKey string  // OpenAI API key
	Model        string  // Model for field research (default: gpt-4o)
	QuickModel   string  // Faster model for quick summaries (default: gpt-4o-mini)
	MaxTokens    int     // Completion token cap (default: 512)
	Temperature  float64 // Sampling temperature (default: 0.2)
}

// SearchConfig contains web-search dependency configuration.
type SearchConfig struct {
	SerperAPIKey string  // Serper API key; search tool is withheld when empty
	RatePerSec   float64 // Client-side search rate limit (default: 5)
	Burst        int     // Rate limiter burst (default: 5)
}

// ResearchConfig contains orchestration settings.
type ResearchConfig struct {
	// FieldTimeout bounds one (artist, field) lookup task.
	FieldTimeout time.Duration
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the SHOWSCOUT_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvInt("SHOWSCOUT_PORT", 7380),
			Host:            getEnv("SHOWSCOUT_HOST", "127.0.0.1"),
			CORSOrigins:     []string{getEnv("SHOWSCOUT_CORS_ORIGIN", "http://localhost:3000")},
			RateLimitPerSec: getEnvFloat("SHOWSCOUT_RATE_LIMIT_PER_SEC", 10.0),
			RateLimitBurst:  getEnvInt("SHOWSCOUT_RATE_LIMIT_BURST", 20),
		},
		Cache: CacheConfig{
			Engine: getEnv("SHOWSCOUT_CACHE_ENGINE", "file"),
			Dir:    getEnv("SHOWSCOUT_CACHE_DIR", "./data/cache"),
			DSN:    getEnv("SHOWSCOUT_CACHE_DSN", ""),
		},
		LLM: LLMConfig{
			OpenAIAPIKey: getEnv("SHOWSCOUT_OPENAI_API_KEY", os.Getenv("OPENAI_API_KEY")),
			Model:        getEnv("SHOWSCOUT_MODEL", "gpt-4o"),
			QuickModel:   getEnv("SHOWSCOUT_QUICK_MODEL", "gpt-4o-mini"),
			MaxTokens:    getEnvInt("SHOWSCOUT_MAX_TOKENS", 512),
			Temperature:  getEnvFloat("SHOWSCOUT_TEMPERATURE", 0.2),
		},
		Search: SearchConfig{
			SerperAPIKey: getEnv("SHOWSCOUT_SERPER_API_KEY", os.Getenv("SERPER_API_KEY")),
			RatePerSec:   getEnvFloat("SHOWSCOUT_SEARCH_RATE_PER_SEC", 5.0),
			Burst:        getEnvInt("SHOWSCOUT_SEARCH_BURST", 5),
		},
		Research: ResearchConfig{
			FieldTimeout: getEnvDuration("SHOWSCOUT_FIELD_TIMEOUT", 25*time.Second),
		},
	}, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the variable exists but cannot be parsed, the default is used.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (e.g. "25s") or
// returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
