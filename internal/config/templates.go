package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# tickerdash configuration

[server]
# Base URL of the dashboard backend
base_url = "http://localhost:8000"
# HTTP client timeout ("0s" = transport default)
timeout = "30s"

[dashboard]
# Dashboard variant: "news" (tickers with insights and articles) or "simple" (tickers only)
variant = "news"
# Hours of news and insights to request
news_window_hours = 24
# Auto-refresh interval; leave unset for the variant default (news 2m, simple 30s)
# refresh_interval = "2m"
# Delay before reloading after a ticker is added
add_reload_delay = "1.5s"
# How long error banners stay visible
banner_duration = "5s"

[session]
# Where the bearer token is kept: "file", "sqlite" or "memory"
backend = "file"
# Override the session file/database path
path = ""

[ui]
# Enable colored output
color_enabled = true
# Absolute date format for articles older than a week
date_format = "Jan 2, 2006"

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
