package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected default port: %d", cfg.HTTPPort)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("unexpected default model: %s", cfg.Model)
	}
	if cfg.HistoryMaxItems != 20 {
		t.Fatalf("unexpected history cap: %d", cfg.HistoryMaxItems)
	}
	if cfg.StreamTokenTTL != time.Minute {
		t.Fatalf("unexpected token TTL: %v", cfg.StreamTokenTTL)
	}
	if cfg.DefaultInstructions != DefaultInstructions {
		t.Fatalf("unexpected default instructions: %q", cfg.DefaultInstructions)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STREAM_TOKEN_TTL_MS", "5000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DEFAULT_INSTRUCTIONS", "be brief")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 9090 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.StreamTokenTTL != 5*time.Second {
		t.Fatalf("unexpected token TTL: %v", cfg.StreamTokenTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.DefaultInstructions != "be brief" {
		t.Fatalf("unexpected instructions: %q", cfg.DefaultInstructions)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("http_port: 7070\nmodel: gpt-4o-mini\nstream_token_ttl_ms: 30000\nhistory_max_items: 10\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 7070 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %s", cfg.Model)
	}
	if cfg.StreamTokenTTL != 30*time.Second {
		t.Fatalf("unexpected token TTL: %v", cfg.StreamTokenTTL)
	}
	if cfg.HistoryMaxItems != 10 {
		t.Fatalf("unexpected history cap: %d", cfg.HistoryMaxItems)
	}
}

func TestEnvWinsOverConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http_port: 7070\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "9191")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPPort != 9191 {
		t.Fatalf("environment must win over the file, got %d", cfg.HTTPPort)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
