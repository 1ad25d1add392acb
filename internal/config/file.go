package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file shape. Every field is optional;
// zero values leave the environment/default value in place.
type fileConfig struct {
	Server struct {
		Port            int      `yaml:"port"`
		Host            string   `yaml:"host"`
		CORSOrigins     []string `yaml:"cors_origins"`
		RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
		RateLimitBurst  int      `yaml:"rate_limit_burst"`
	} `yaml:"server"`
	Cache struct {
		Engine string `yaml:"engine"`
		Dir    string `yaml:"dir"`
		DSN    string `yaml:"dsn"`
	} `yaml:"cache"`
	LLM struct {
		Model       string  `yaml:"model"`
		QuickModel  string  `yaml:"quick_model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`
	Search struct {
		RatePerSec float64 `yaml:"rate_per_sec"`
		Burst      int     `yaml:"burst"`
	} `yaml:"search"`
	Research struct {
		FieldTimeout string `yaml:"field_timeout"`
	} `yaml:"research"`
}

// LoadConfigFromFile loads the environment-based configuration and overlays
// it with values from a YAML file. File values win over environment values.
// API keys are deliberately env-only and never read from the file.
func LoadConfigFromFile(path string) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if fc.Server.Port != 0 {
		cfg.Server.Port = fc.Server.Port
	}
	if fc.Server.Host != "" {
		cfg.Server.Host = fc.Server.Host
	}
	if len(fc.Server.CORSOrigins) > 0 {
		cfg.Server.CORSOrigins = fc.Server.CORSOrigins
	}
	if fc.Server.RateLimitPerSec != 0 {
		cfg.Server.RateLimitPerSec = fc.Server.RateLimitPerSec
	}
	if fc.Server.RateLimitBurst != 0 {
		cfg.Server.RateLimitBurst = fc.Server.RateLimitBurst
	}
	if fc.Cache.Engine != "" {
		cfg.Cache.Engine = fc.Cache.Engine
	}
	if fc.Cache.Dir != "" {
		cfg.Cache.Dir = fc.Cache.Dir
	}
	if fc.Cache.DSN != "" {
		cfg.Cache.DSN = fc.Cache.DSN
	}
	if fc.LLM.Model != "" {
		cfg.LLM.Model = fc.LLM.Model
	}
	if fc.LLM.QuickModel != "" {
		cfg.LLM.QuickModel = fc.LLM.QuickModel
	}
	if fc.LLM.MaxTokens != 0 {
		cfg.LLM.MaxTokens = fc.LLM.MaxTokens
	}
	if fc.LLM.Temperature != 0 {
		cfg.LLM.Temperature = fc.LLM.Temperature
	}
	if fc.Search.RatePerSec != 0 {
		cfg.Search.RatePerSec = fc.Search.RatePerSec
	}
	if fc.Search.Burst != 0 {
		cfg.Search.Burst = fc.Search.Burst
	}
	if fc.Research.FieldTimeout != "" {
		d, err := time.ParseDuration(fc.Research.FieldTimeout)
		if err != nil {
			return nil, fmt.Errorf("config: invalid research.field_timeout %q: %w", fc.Research.FieldTimeout, err)
		}
		cfg.Research.FieldTimeout = d
	}

	return cfg, nil
}
