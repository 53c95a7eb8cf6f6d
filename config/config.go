package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config carries the ledger bootstrap settings. The admin address is read once
// at initialisation and is immutable afterwards; rotating it requires an
// explicit admin-transfer operation, not a config edit.
type Config struct {
	AdminAddress  string `toml:"AdminAddress"`
	DataDir       string `toml:"DataDir"`
	Environment   string `toml:"Environment"`
	DefaultFeeBps uint32 `toml:"DefaultFeeBps"`
}

// Load loads the configuration from the given path,
// creating a default file when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded settings for internal consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AdminAddress) == "" {
		return fmt.Errorf("AdminAddress must be set")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DataDir must be set")
	}
	if c.DefaultFeeBps >= 10_000 {
		return fmt.Errorf("DefaultFeeBps must be below 10000, got %d", c.DefaultFeeBps)
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		AdminAddress:  "",
		DataDir:       "./ledger-data",
		Environment:   "dev",
		DefaultFeeBps: 30,
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
