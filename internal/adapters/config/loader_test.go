package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_LoadConfig_Defaults(t *testing.T) {
	loader := NewLoader()
	ctx := context.Background()
	tmpDir := t.TempDir()

	cfg, err := loader.LoadConfig(ctx, tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "localhost")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Workers != 1 {
		t.Errorf("Server.Workers = %d, want 1", cfg.Server.Workers)
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("Cache.TTLSeconds = %d, want 300", cfg.Cache.TTLSeconds)
	}
}

func TestLoader_LoadConfig_FromFile(t *testing.T) {
	loader := NewLoader()
	ctx := context.Background()
	tmpDir := t.TempDir()

	configContent := `
[server]
host = "0.0.0.0"
port = 9090
workers = 4

[cache]
ttl_seconds = 60
`
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := loader.LoadConfig(ctx, tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Workers != 4 {
		t.Errorf("Server.Workers = %d, want 4", cfg.Server.Workers)
	}
	if cfg.Cache.TTLSeconds != 60 {
		t.Errorf("Cache.TTLSeconds = %d, want 60", cfg.Cache.TTLSeconds)
	}
}

func TestLoader_LoadConfig_PartialOverride(t *testing.T) {
	loader := NewLoader()
	ctx := context.Background()
	tmpDir := t.TempDir()

	configContent := `
[server]
port = 9999
`
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := loader.LoadConfig(ctx, tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host should keep default, got %q", cfg.Server.Host)
	}
}

func TestLoader_LoadConfig_InvalidTOML(t *testing.T) {
	loader := NewLoader()
	ctx := context.Background()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("not [ valid toml"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := loader.LoadConfig(ctx, tmpDir); err == nil {
		t.Error("expected error for invalid TOML")
	}
}
