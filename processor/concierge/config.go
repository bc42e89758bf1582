package concierge

import (
	"fmt"
	"reflect"
	"time"

	"github.com/c360studio/semstreams/component"
)

// conciergeSchema defines the configuration schema.
var conciergeSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the concierge component.
type Config struct {
	// DataDir is the base directory for the suggestion store and action
	// side effects (event files, reminders, contacts).
	DataDir string `json:"data_dir"`

	// ClipboardStorePath is the clipboard metadata file to tail. Empty
	// means <data_dir>/clipboard_metadata.json.
	ClipboardStorePath string `json:"clipboard_store_path,omitempty"`

	// PollInterval is the fallback scan interval for the store tailer.
	PollInterval time.Duration `json:"poll_interval"`

	// Debounce collapses bursts of file change notifications.
	Debounce time.Duration `json:"debounce"`

	// AutoExecute runs the best suggested action instead of only
	// recording the suggestion.
	AutoExecute bool `json:"auto_execute"`

	// MinConfidence discards classifications below it.
	MinConfidence float64 `json:"min_confidence"`

	// StreamName is the JetStream stream carrying capture records.
	StreamName string `json:"stream_name"`

	// ConsumerName is the durable consumer name.
	ConsumerName string `json:"consumer_name"`

	// Ports contains input/output port definitions.
	Ports *component.PortConfig `json:"ports,omitempty"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:       "data",
		PollInterval:  3 * time.Second,
		Debounce:      500 * time.Millisecond,
		MinConfidence: 0.3,
		StreamName:    "CAPTURE",
		ConsumerName:  "concierge",
		Ports: &component.PortConfig{
			Inputs: []component.PortDefinition{
				{
					Name:        "clipboard-records",
					Type:        "jetstream",
					Subject:     clipboardSubject,
					StreamName:  "CAPTURE",
					Description: "Consume captured clipboard records",
					Required:    false,
				},
			},
			Outputs: []component.PortDefinition{
				{
					Name:        "suggestions",
					Type:        "jetstream",
					Subject:     suggestionSubject,
					StreamName:  "CAPTURE",
					Description: "Publish concierge suggestions",
					Required:    false,
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
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0 and 1")
	}
	return nil
}
