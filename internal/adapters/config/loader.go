// Package config loads runtime configuration from <root>/config.toml.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

var _ usecases.ConfigLoader = (*Loader)(nil)

// Loader implements usecases.ConfigLoader for config.toml files.
type Loader struct{}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

type tomlConfig struct {
	Server serverSection `toml:"server"`
	Cache  cacheSection  `toml:"cache"`
}

type serverSection struct {
	Host    string `toml:"host"`
	Port    *int   `toml:"port"`
	Workers *int   `toml:"workers"`
}

type cacheSection struct {
	TTLSeconds *int `toml:"ttl_seconds"`
}

func defaultConfig() usecases.RuntimeConfig {
	cfg := usecases.RuntimeConfig{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8080
	cfg.Server.Workers = 1
	cfg.Cache.TTLSeconds = 300
	return cfg
}

// LoadConfig reads <root>/config.toml and applies defaults for any
// setting it omits. A missing config.toml is not an error: the root
// layout validator is responsible for surfacing PathMissing.
func (l *Loader) LoadConfig(ctx context.Context, root string) (usecases.RuntimeConfig, error) {
	cfg := defaultConfig()

	path := filepath.Join(root, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return usecases.RuntimeConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if tc.Server.Host != "" {
		cfg.Server.Host = tc.Server.Host
	}
	if tc.Server.Port != nil {
		cfg.Server.Port = *tc.Server.Port
	}
	if tc.Server.Workers != nil {
		cfg.Server.Workers = *tc.Server.Workers
	}
	if tc.Cache.TTLSeconds != nil {
		cfg.Cache.TTLSeconds = *tc.Cache.TTLSeconds
	}

	return cfg, nil
}
