package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig holds the terminal client settings.
type ClientConfig struct {
	BaseURL  string        `toml:"base_url"`
	PageSize int           `toml:"page_size"`
	Timeout  time.Duration `toml:"-"`
	// RawTimeout is the TOML form of Timeout, e.g. "5s".
	RawTimeout string `toml:"timeout"`
}

// DefaultClientConfigPath returns $HOME/.config/todo/config.toml.
func DefaultClientConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todo", "config.toml")
}

// LoadClient reads the TOML file at path. A missing file yields defaults.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{
		BaseURL:  "http://localhost:8080",
		PageSize: 10,
		Timeout:  5 * time.Second,
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if cfg.RawTimeout != "" {
		timeout, err := time.ParseDuration(cfg.RawTimeout)
		if err != nil {
			return nil, fmt.Errorf("timeout %q: %w", cfg.RawTimeout, err)
		}
		cfg.Timeout = timeout
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}
