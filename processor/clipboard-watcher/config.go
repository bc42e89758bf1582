package clipboardwatcher

import (
	"fmt"
	"reflect"
	"time"

	"github.com/c360studio/memoryos/capture"
	"github.com/c360studio/semstreams/component"
)

// clipboardWatcherSchema defines the configuration schema.
var clipboardWatcherSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the clipboard watcher component.
type Config struct {
	// DataDir is the base directory for the metadata store and saved
	// images, file lists, and copies.
	DataDir string `json:"data_dir"`

	// PollInterval is how often the clipboard is sampled.
	PollInterval time.Duration `json:"poll_interval"`

	// DedupWindow suppresses identical content recaptured within it.
	DedupWindow time.Duration `json:"dedup_window"`

	// PreviewLength caps stored content previews, in characters.
	PreviewLength int `json:"preview_length"`

	// CopyExcludes are doublestar glob patterns for copied files to skip.
	CopyExcludes []string `json:"copy_excludes,omitempty"`

	// EnrichURLs fetches page titles for captured URLs when true.
	EnrichURLs bool `json:"enrich_urls"`

	// Ports contains input/output port definitions.
	Ports *component.PortConfig `json:"ports,omitempty"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:       "data",
		PollInterval:  1 * time.Second,
		DedupWindow:   5 * time.Second,
		PreviewLength: capture.PreviewLength,
		Ports: &component.PortConfig{
			Outputs: []component.PortDefinition{
				{
					Name:        "clipboard-records",
					Type:        "jetstream",
					Subject:     recordSubject,
					StreamName:  "CAPTURE",
					Description: "Publish captured clipboard records",
					Required:    true,
				},
			},
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.DedupWindow < 0 {
		return fmt.Errorf("dedup_window must not be negative")
	}
	if c.PreviewLength < 0 {
		return fmt.Errorf("preview_length must not be negative")
	}
	return nil
}
