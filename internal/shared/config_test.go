package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./sortify.db" {
			t.Errorf("expected database path ./sortify.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.UI.PageSize != 30 {
			t.Errorf("expected page size 30, got %d", config.UI.PageSize)
		}
		if config.UI.Threshold != 500 {
			t.Errorf("expected threshold 500, got %d", config.UI.Threshold)
		}
		if config.UI.LoadDelay() != 500*time.Millisecond {
			t.Errorf("expected load delay 500ms, got %v", config.UI.LoadDelay())
		}
		if config.UI.ReverseDelay() != 100*time.Millisecond {
			t.Errorf("expected reverse delay 100ms, got %v", config.UI.ReverseDelay())
		}
		if config.Auth.TokenKey != "spotify_access_token" {
			t.Errorf("expected token key spotify_access_token, got %s", config.Auth.TokenKey)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[catalog]
path = "/data/results.json"

[ui]
theme = "dark"
page_size = 10
`

		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}
		if config.Catalog.Path != "/data/results.json" {
			t.Errorf("expected catalog path, got %s", config.Catalog.Path)
		}
		if config.UI.Theme != "dark" || config.UI.PageSize != 10 {
			t.Errorf("expected ui overrides, got %+v", config.UI)
		}
		if config.UI.Threshold != 500 {
			t.Errorf("unset keys should keep defaults, got threshold %d", config.UI.Threshold)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		tt := []struct {
			name string
			body string
		}{
			{name: "zero page size", body: "[ui]\npage_size = 0\n"},
			{name: "unknown theme", body: "[ui]\ntheme = \"sepia\"\n"},
			{name: "negative delay", body: "[ui]\nload_delay_ms = -1\n"},
			{name: "bad toml", body: "[ui\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tc.body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
