package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user configuration loaded from the config file.
// All fields are optional; flags override config values.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Serve    ServeConfig    `toml:"serve"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// CacheConfig configures the artifact cache backend.
type CacheConfig struct {
	// Dir overrides the cache directory (default: ~/.cache/qrframe).
	Dir string `toml:"dir"`
	// RedisAddr enables the Redis cache backend (e.g., "localhost:6379").
	RedisAddr string `toml:"redis_addr"`
}

// ServeConfig configures the HTTP service.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `toml:"addr"`
}

// DefaultsConfig sets default encode options for the encode command.
type DefaultsConfig struct {
	ECC     string   `toml:"ecc"`
	Border  int      `toml:"border"`
	Formats []string `toml:"formats"`
}

// configPath returns the config file path using the XDG standard
// (~/.config/qrframe/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file. A missing file yields an empty config.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return &Config{}, nil
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}
