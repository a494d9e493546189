// Package config provides configuration management for the dashboard client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Dashboard variants.
const (
	VariantNews   = "news"
	VariantSimple = "simple"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Default refresh intervals per variant.
const (
	NewsRefreshInterval   = 120 * time.Second
	SimpleRefreshInterval = 30 * time.Second
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Session   SessionConfig   `mapstructure:"session"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`

	// Dir is the directory the config was loaded from.
	Dir string `mapstructure:"-"`
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DashboardConfig holds refresh loop settings.
type DashboardConfig struct {
	Variant         string        `mapstructure:"variant"` // "news", "simple"
	NewsWindowHours int           `mapstructure:"news_window_hours"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 = variant default
	AddReloadDelay  time.Duration `mapstructure:"add_reload_delay"`
	BannerDuration  time.Duration `mapstructure:"banner_duration"`
}

// SessionConfig selects where the bearer token is persisted.
type SessionConfig struct {
	Backend string `mapstructure:"backend"` // "file", "sqlite", "memory"
	Path    string `mapstructure:"path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tickerdash"
	}
	return filepath.Join(home, ".config", "tickerdash")
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Dashboard: DashboardConfig{
			Variant:         VariantNews,
			NewsWindowHours: 24,
			AddReloadDelay:  1500 * time.Millisecond,
			BannerDuration:  5 * time.Second,
		},
		Session: SessionConfig{
			Backend: BackendFile,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "Jan 2, 2006",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
		Dir: DefaultConfigDir(),
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is created from the template and the defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// .env in the working directory, then one next to config.toml.
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(configDir, ".env"))

	cfg := Default()
	cfg.Dir = configDir

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	d := Default()
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("dashboard.variant", d.Dashboard.Variant)
	v.SetDefault("dashboard.news_window_hours", d.Dashboard.NewsWindowHours)
	v.SetDefault("dashboard.refresh_interval", d.Dashboard.RefreshInterval)
	v.SetDefault("dashboard.add_reload_delay", d.Dashboard.AddReloadDelay)
	v.SetDefault("dashboard.banner_duration", d.Dashboard.BannerDuration)
	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.path", d.Session.Path)
	v.SetDefault("ui.color_enabled", d.UI.ColorEnabled)
	v.SetDefault("ui.date_format", d.UI.DateFormat)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.console", d.Logging.Console)
	v.SetDefault("logging.file", d.Logging.File)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// First run: leave a template behind and continue on defaults.
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TICKERDASH_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("TICKERDASH_VARIANT"); v != "" {
		cfg.Dashboard.Variant = v
	}
	if v := os.Getenv("TICKERDASH_SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = v
	}
	if v := os.Getenv("TICKERDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server base_url: %q (must be an http(s) URL)", c.Server.BaseURL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server timeout must be non-negative")
	}

	if c.Dashboard.Variant != VariantNews && c.Dashboard.Variant != VariantSimple {
		return fmt.Errorf("invalid dashboard variant: %s (must be 'news' or 'simple')", c.Dashboard.Variant)
	}
	if c.Dashboard.NewsWindowHours <= 0 {
		return fmt.Errorf("news_window_hours must be positive")
	}
	if c.Dashboard.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must be non-negative")
	}
	if c.Dashboard.AddReloadDelay < 0 || c.Dashboard.BannerDuration < 0 {
		return fmt.Errorf("add_reload_delay and banner_duration must be non-negative")
	}

	switch c.Session.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("invalid session backend: %s (must be 'file', 'sqlite' or 'memory')", c.Session.Backend)
	}

	return nil
}

// RefreshInterval resolves the configured interval, falling back to the
// variant's default.
func (c *Config) RefreshInterval() time.Duration {
	if c.Dashboard.RefreshInterval > 0 {
		return c.Dashboard.RefreshInterval
	}
	if c.Dashboard.Variant == VariantSimple {
		return SimpleRefreshInterval
	}
	return NewsRefreshInterval
}

// SessionPath returns the file backing the session store.
func (c *Config) SessionPath() string {
	if c.Session.Path != "" {
		return c.Session.Path
	}
	switch c.Session.Backend {
	case BackendSQLite:
		return filepath.Join(c.Dir, "tickerdash.db")
	default:
		return filepath.Join(c.Dir, "session.json")
	}
}

// LogPath returns the rotating log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "logs", "tickerdash.log")
}
