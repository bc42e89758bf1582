// Package config provides configuration loading and management for MemoryOS.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete MemoryOS configuration
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Concierge ConciergeConfig `yaml:"concierge"`
	NATS      NATSConfig      `yaml:"nats"`
}

// DataConfig configures where captured data lands
type DataConfig struct {
	// BaseDir is the root directory for stores and generated files
	// (default: ~/.memoryos/data)
	BaseDir string `yaml:"base_dir"`
}

// ClipboardConfig configures the clipboard watcher
type ClipboardConfig struct {
	// PollInterval is how often the clipboard is sampled
	PollInterval time.Duration `yaml:"poll_interval"`
	// DedupWindow suppresses identical content re-captured within it
	DedupWindow time.Duration `yaml:"dedup_window"`
	// PreviewLength caps stored content previews, in characters
	PreviewLength int `yaml:"preview_length"`
	// CopyExcludes are glob patterns for copied files to skip
	CopyExcludes []string `yaml:"copy_excludes"`
	// EnrichURLs fetches page titles for captured URLs when true
	EnrichURLs bool `yaml:"enrich_urls"`
}

// CalendarConfig configures the calendar watcher
type CalendarConfig struct {
	// Enabled turns the calendar watcher on
	Enabled bool `yaml:"enabled"`
	// CredentialsPath is the OAuth client credentials JSON file
	CredentialsPath string `yaml:"credentials_path"`
	// TokenPath is the stored OAuth token JSON file
	TokenPath string `yaml:"token_path"`
	// PollInterval is how often upcoming events are fetched
	PollInterval time.Duration `yaml:"poll_interval"`
	// Lookahead bounds how far into the future events are fetched
	Lookahead time.Duration `yaml:"lookahead"`
}

// ConciergeConfig configures the clipboard concierge
type ConciergeConfig struct {
	// PollInterval is the store-tailer fallback poll cadence
	PollInterval time.Duration `yaml:"poll_interval"`
	// AutoExecute runs the top suggested action without confirmation
	AutoExecute bool `yaml:"auto_execute"`
	// MinConfidence drops suggestions scored below it
	MinConfidence float64 `yaml:"min_confidence"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = run store-only, no publishing)
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	baseDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		baseDir = filepath.Join(home, ".memoryos", "data")
	}
	return &Config{
		Data: DataConfig{
			BaseDir: baseDir,
		},
		Clipboard: ClipboardConfig{
			PollInterval:  2 * time.Second,
			DedupWindow:   5 * time.Second,
			PreviewLength: 200,
			CopyExcludes:  nil,
			EnrichURLs:    false,
		},
		Calendar: CalendarConfig{
			Enabled:      false,
			PollInterval: 5 * time.Minute,
			Lookahead:    30 * 24 * time.Hour,
		},
		Concierge: ConciergeConfig{
			PollInterval:  3 * time.Second,
			AutoExecute:   false,
			MinConfidence: 0.3,
		},
		NATS: NATSConfig{
			URL: "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Data.BaseDir == "" {
		return fmt.Errorf("data.base_dir is required")
	}
	if c.Clipboard.PollInterval <= 0 {
		return fmt.Errorf("clipboard.poll_interval must be positive")
	}
	if c.Clipboard.DedupWindow < 0 {
		return fmt.Errorf("clipboard.dedup_window must not be negative")
	}
	if c.Clipboard.PreviewLength < 0 {
		return fmt.Errorf("clipboard.preview_length must not be negative")
	}
	if c.Concierge.MinConfidence < 0 || c.Concierge.MinConfidence > 1 {
		return fmt.Errorf("concierge.min_confidence must be between 0 and 1")
	}
	if c.Calendar.Enabled {
		if c.Calendar.CredentialsPath == "" {
			return fmt.Errorf("calendar.credentials_path is required when calendar is enabled")
		}
		if c.Calendar.TokenPath == "" {
			return fmt.Errorf("calendar.token_path is required when calendar is enabled")
		}
		if c.Calendar.PollInterval <= 0 {
			return fmt.Errorf("calendar.poll_interval must be positive")
		}
		if c.Calendar.Lookahead <= 0 {
			return fmt.Errorf("calendar.lookahead must be positive")
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Data
	if other.Data.BaseDir != "" {
		c.Data.BaseDir = other.Data.BaseDir
	}

	// Clipboard
	if other.Clipboard.PollInterval != 0 {
		c.Clipboard.PollInterval = other.Clipboard.PollInterval
	}
	if other.Clipboard.DedupWindow != 0 {
		c.Clipboard.DedupWindow = other.Clipboard.DedupWindow
	}
	if other.Clipboard.PreviewLength != 0 {
		c.Clipboard.PreviewLength = other.Clipboard.PreviewLength
	}
	if len(other.Clipboard.CopyExcludes) > 0 {
		c.Clipboard.CopyExcludes = other.Clipboard.CopyExcludes
	}
	if other.Clipboard.EnrichURLs {
		c.Clipboard.EnrichURLs = true
	}

	// Calendar
	if other.Calendar.Enabled {
		c.Calendar.Enabled = true
	}
	if other.Calendar.CredentialsPath != "" {
		c.Calendar.CredentialsPath = other.Calendar.CredentialsPath
	}
	if other.Calendar.TokenPath != "" {
		c.Calendar.TokenPath = other.Calendar.TokenPath
	}
	if other.Calendar.PollInterval != 0 {
		c.Calendar.PollInterval = other.Calendar.PollInterval
	}
	if other.Calendar.Lookahead != 0 {
		c.Calendar.Lookahead = other.Calendar.Lookahead
	}

	// Concierge
	if other.Concierge.PollInterval != 0 {
		c.Concierge.PollInterval = other.Concierge.PollInterval
	}
	if other.Concierge.AutoExecute {
		c.Concierge.AutoExecute = true
	}
	if other.Concierge.MinConfidence != 0 {
		c.Concierge.MinConfidence = other.Concierge.MinConfidence
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
}
