package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Catalog  CatalogConfig  `toml:"catalog"`
	UI       UIConfig       `toml:"ui"`
	Auth     AuthConfig     `toml:"auth"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// Addr joins host and port into a listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig points at an alternate catalog file. Empty means the bundled one.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// UIConfig contains pagination and presentation settings shared by the TUI and web views.
type UIConfig struct {
	Theme          string `toml:"theme"`
	PageSize       int    `toml:"page_size"`
	Threshold      int    `toml:"threshold"`
	LoadDelayMS    int    `toml:"load_delay_ms"`
	ReverseDelayMS int    `toml:"reverse_delay_ms"`
}

// LoadDelay returns the pagination delay as a [time.Duration].
func (u UIConfig) LoadDelay() time.Duration {
	return time.Duration(u.LoadDelayMS) * time.Millisecond
}

// ReverseDelay returns the reverse animation step as a [time.Duration].
func (u UIConfig) ReverseDelay() time.Duration {
	return time.Duration(u.ReverseDelayMS) * time.Millisecond
}

// AuthConfig names the storage key for the captured access token.
type AuthConfig struct {
	TokenKey string `toml:"token_key"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects values that would break pagination or the server.
func (c *Config) Validate() error {
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("%w: ui.page_size must be positive", ErrInvalidConfig)
	}
	if c.UI.Threshold < 0 || c.UI.LoadDelayMS < 0 || c.UI.ReverseDelayMS < 0 {
		return fmt.Errorf("%w: ui timings must not be negative", ErrInvalidConfig)
	}
	if c.UI.Theme != "light" && c.UI.Theme != "dark" {
		return fmt.Errorf("%w: ui.theme must be light or dark, got %q", ErrInvalidConfig, c.UI.Theme)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
