package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 7380 {
		t.Errorf("Port = %d, want 7380", cfg.Server.Port)
	}
	if cfg.Cache.Engine != "file" {
		t.Errorf("Cache.Engine = %q, want file", cfg.Cache.Engine)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.QuickModel != "gpt-4o-mini" {
		t.Errorf("models = %q / %q", cfg.LLM.Model, cfg.LLM.QuickModel)
	}
	if cfg.Research.FieldTimeout != 25*time.Second {
		t.Errorf("FieldTimeout = %v, want 25s", cfg.Research.FieldTimeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SHOWSCOUT_PORT", "9000")
	t.Setenv("SHOWSCOUT_CACHE_ENGINE", "sqlite")
	t.Setenv("SHOWSCOUT_FIELD_TIMEOUT", "40s")
	t.Setenv("SHOWSCOUT_TEMPERATURE", "0.7")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Cache.Engine != "sqlite" {
		t.Errorf("Cache.Engine = %q, want sqlite", cfg.Cache.Engine)
	}
	if cfg.Research.FieldTimeout != 40*time.Second {
		t.Errorf("FieldTimeout = %v, want 40s", cfg.Research.FieldTimeout)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.LLM.Temperature)
	}
}

func TestLoadConfigBadEnvFallsBack(t *testing.T) {
	t.Setenv("SHOWSCOUT_PORT", "not-a-number")
	t.Setenv("SHOWSCOUT_FIELD_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 7380 {
		t.Errorf("Port = %d, want default on parse failure", cfg.Server.Port)
	}
	if cfg.Research.FieldTimeout != 25*time.Second {
		t.Errorf("FieldTimeout = %v, want default on parse failure", cfg.Research.FieldTimeout)
	}
}

func TestLoadConfigFromFileOverlay(t *testing.T) {
	t.Setenv("SHOWSCOUT_OPENAI_API_KEY", "env-key")
	path := filepath.Join(t.TempDir(), "showscout.yaml")
	content := `
server:
  port: 8088
  cors_origins: ["https://shows.example.com"]
llm:
  model: gpt-4.1
research:
  field_timeout: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFromFile() error = %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("Port = %d, want 8088", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://shows.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.LLM.Model != "gpt-4.1" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Research.FieldTimeout != 30*time.Second {
		t.Errorf("FieldTimeout = %v", cfg.Research.FieldTimeout)
	}
	// Untouched values keep their env/default settings; API keys stay env-only.
	if cfg.LLM.QuickModel != "gpt-4o-mini" {
		t.Errorf("QuickModel = %q, want default", cfg.LLM.QuickModel)
	}
	if cfg.LLM.OpenAIAPIKey != "env-key" {
		t.Errorf("OpenAIAPIKey = %q, want env value", cfg.LLM.OpenAIAPIKey)
	}
}

func TestLoadConfigFromFileErrors(t *testing.T) {
	if _, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("server: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFromFile(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
