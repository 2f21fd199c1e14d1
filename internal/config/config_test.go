package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Timeouts.Request != 10*time.Second {
		t.Errorf("expected default request timeout, got %v", cfg.Timeouts.Request)
	}
	if cfg.Timeouts.AI != 45*time.Second {
		t.Errorf("expected default AI timeout, got %v", cfg.Timeouts.AI)
	}
}

func TestLoad_FileAndDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
remote:
  url: https://api.example.test
  anon_key: abc123
timeouts:
  request: 3s
  ai: 90s
redis:
  addr: localhost:6379
  db: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Remote.URL != "https://api.example.test" {
		t.Errorf("url mismatch: %q", cfg.Remote.URL)
	}
	if cfg.Timeouts.Request != 3*time.Second {
		t.Errorf("duration string not decoded: %v", cfg.Timeouts.Request)
	}
	if cfg.Timeouts.AI != 90*time.Second {
		t.Errorf("ai timeout not decoded: %v", cfg.Timeouts.AI)
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("redis db mismatch: %d", cfg.Redis.DB)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TEND_REMOTE_URL", "https://override.example.test")
	t.Setenv("TEND_ANON_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Remote.URL != "https://override.example.test" {
		t.Errorf("env url override not applied: %q", cfg.Remote.URL)
	}
	if cfg.Remote.AnonKey != "env-key" {
		t.Errorf("env key override not applied: %q", cfg.Remote.AnonKey)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("remote: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
