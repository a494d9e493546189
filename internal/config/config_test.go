package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadCreatesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("expected template to be written: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Dashboard.Variant != VariantNews || cfg.RefreshInterval() != 120*time.Second {
		t.Errorf("variant=%q interval=%v", cfg.Dashboard.Variant, cfg.RefreshInterval())
	}
	if cfg.Dashboard.AddReloadDelay != 1500*time.Millisecond {
		t.Errorf("AddReloadDelay = %v", cfg.Dashboard.AddReloadDelay)
	}
	if cfg.SessionPath() != filepath.Join(dir, "session.json") {
		t.Errorf("SessionPath = %q", cfg.SessionPath())
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[server]
base_url = "https://dash.example.com"
timeout = "10s"

[dashboard]
variant = "simple"
news_window_hours = 48

[session]
backend = "sqlite"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "https://dash.example.com" || cfg.Server.Timeout != 10*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.RefreshInterval() != 30*time.Second {
		t.Errorf("simple variant interval = %v", cfg.RefreshInterval())
	}
	if cfg.Dashboard.NewsWindowHours != 48 {
		t.Errorf("NewsWindowHours = %d", cfg.Dashboard.NewsWindowHours)
	}
	if !strings.HasSuffix(cfg.SessionPath(), "tickerdash.db") {
		t.Errorf("SessionPath = %q", cfg.SessionPath())
	}
	// Unset keys keep their defaults.
	if cfg.Dashboard.BannerDuration != 5*time.Second {
		t.Errorf("BannerDuration = %v", cfg.Dashboard.BannerDuration)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TICKERDASH_BASE_URL", "http://10.0.0.5:9000")
	t.Setenv("TICKERDASH_VARIANT", "simple")
	t.Setenv("TICKERDASH_SESSION_BACKEND", "memory")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:9000" || cfg.Dashboard.Variant != VariantSimple || cfg.Session.Backend != BackendMemory {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	mutate := map[string]func(*Config){
		"bad url":       func(c *Config) { c.Server.BaseURL = "localhost:8000" },
		"bad variant":   func(c *Config) { c.Dashboard.Variant = "rich" },
		"zero window":   func(c *Config) { c.Dashboard.NewsWindowHours = 0 },
		"neg interval":  func(c *Config) { c.Dashboard.RefreshInterval = -time.Second },
		"bad backend":   func(c *Config) { c.Session.Backend = "redis" },
		"neg timeout":   func(c *Config) { c.Server.Timeout = -1 },
		"neg add delay": func(c *Config) { c.Dashboard.AddReloadDelay = -1 },
	}
	for name, fn := range mutate {
		cfg := Default()
		fn(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestExplicitRefreshIntervalWins(t *testing.T) {
	cfg := Default()
	cfg.Dashboard.RefreshInterval = 45 * time.Second
	if cfg.RefreshInterval() != 45*time.Second {
		t.Errorf("RefreshInterval = %v", cfg.RefreshInterval())
	}
}
