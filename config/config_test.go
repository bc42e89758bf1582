package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Clipboard.PollInterval != 2*time.Second {
		t.Errorf("expected default poll interval 2s, got %v", cfg.Clipboard.PollInterval)
	}
	if cfg.Clipboard.DedupWindow != 5*time.Second {
		t.Errorf("expected default dedup window 5s, got %v", cfg.Clipboard.DedupWindow)
	}
	if cfg.Clipboard.PreviewLength != 200 {
		t.Errorf("expected default preview length 200, got %d", cfg.Clipboard.PreviewLength)
	}
	if cfg.Calendar.Enabled {
		t.Error("expected calendar disabled by default")
	}
	if cfg.Calendar.Lookahead != 30*24*time.Hour {
		t.Errorf("expected default lookahead 30 days, got %v", cfg.Calendar.Lookahead)
	}
	if cfg.Concierge.MinConfidence != 0.3 {
		t.Errorf("expected default min confidence 0.3, got %f", cfg.Concierge.MinConfidence)
	}
	if cfg.Concierge.AutoExecute {
		t.Error("expected auto-execute off by default")
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected empty NATS URL by default, got %s", cfg.NATS.URL)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing base dir",
			modify:  func(c *Config) { c.Data.BaseDir = "" },
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			modify:  func(c *Config) { c.Clipboard.PollInterval = 0 },
			wantErr: true,
		},
		{
			name:    "negative dedup window",
			modify:  func(c *Config) { c.Clipboard.DedupWindow = -time.Second },
			wantErr: true,
		},
		{
			name:    "confidence too high",
			modify:  func(c *Config) { c.Concierge.MinConfidence = 1.1 },
			wantErr: true,
		},
		{
			name:    "confidence too low",
			modify:  func(c *Config) { c.Concierge.MinConfidence = -0.1 },
			wantErr: true,
		},
		{
			name: "calendar enabled without credentials",
			modify: func(c *Config) {
				c.Calendar.Enabled = true
				c.Calendar.TokenPath = "/tmp/token.json"
			},
			wantErr: true,
		},
		{
			name: "calendar enabled without token",
			modify: func(c *Config) {
				c.Calendar.Enabled = true
				c.Calendar.CredentialsPath = "/tmp/creds.json"
			},
			wantErr: true,
		},
		{
			name: "calendar fully configured",
			modify: func(c *Config) {
				c.Calendar.Enabled = true
				c.Calendar.CredentialsPath = "/tmp/creds.json"
				c.Calendar.TokenPath = "/tmp/token.json"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
data:
  base_dir: "/test/data"
clipboard:
  poll_interval: 1s
  dedup_window: 10s
  enrich_urls: true
  copy_excludes:
    - "*.tmp"
    - "node_modules/**"
calendar:
  enabled: true
  credentials_path: "/test/creds.json"
  token_path: "/test/token.json"
  poll_interval: 10m
  lookahead: 168h
concierge:
  auto_execute: true
  min_confidence: 0.5
nats:
  url: "nats://test:4222"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Data.BaseDir != "/test/data" {
		t.Errorf("expected base dir /test/data, got %s", cfg.Data.BaseDir)
	}
	if cfg.Clipboard.PollInterval != time.Second {
		t.Errorf("expected poll interval 1s, got %v", cfg.Clipboard.PollInterval)
	}
	if cfg.Clipboard.DedupWindow != 10*time.Second {
		t.Errorf("expected dedup window 10s, got %v", cfg.Clipboard.DedupWindow)
	}
	if !cfg.Clipboard.EnrichURLs {
		t.Error("expected enrich_urls true")
	}
	if len(cfg.Clipboard.CopyExcludes) != 2 {
		t.Errorf("expected 2 copy excludes, got %d", len(cfg.Clipboard.CopyExcludes))
	}
	if !cfg.Calendar.Enabled {
		t.Error("expected calendar enabled")
	}
	if cfg.Calendar.Lookahead != 168*time.Hour {
		t.Errorf("expected lookahead 168h, got %v", cfg.Calendar.Lookahead)
	}
	if !cfg.Concierge.AutoExecute {
		t.Error("expected auto_execute true")
	}
	if cfg.Concierge.MinConfidence != 0.5 {
		t.Errorf("expected min confidence 0.5, got %f", cfg.Concierge.MinConfidence)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Data: DataConfig{
			BaseDir: "/override/data",
		},
		Concierge: ConciergeConfig{
			AutoExecute: true,
		},
	}

	base.Merge(override)

	if base.Data.BaseDir != "/override/data" {
		t.Errorf("expected base dir /override/data, got %s", base.Data.BaseDir)
	}
	if !base.Concierge.AutoExecute {
		t.Error("expected auto_execute overridden to true")
	}
	// Poll interval should remain from base since override didn't set it
	if base.Clipboard.PollInterval != 2*time.Second {
		t.Errorf("expected poll interval to remain default, got %v", base.Clipboard.PollInterval)
	}
	if base.Concierge.MinConfidence != 0.3 {
		t.Errorf("expected min confidence to remain default, got %f", base.Concierge.MinConfidence)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Data.BaseDir = "/saved/data"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Data.BaseDir != "/saved/data" {
		t.Errorf("expected base dir /saved/data, got %s", loaded.Data.BaseDir)
	}
}
