package calendarwatcher

import (
	"fmt"
	"reflect"
	"time"

	"github.com/c360studio/semstreams/component"
)

// calendarWatcherSchema defines the configuration schema.
var calendarWatcherSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the calendar watcher component.
type Config struct {
	// DataDir is the base directory for the metadata store and saved
	// event files.
	DataDir string `json:"data_dir"`

	// CredentialsPath points at the OAuth client credentials JSON.
	CredentialsPath string `json:"credentials_path"`

	// TokenPath points at a previously issued OAuth token JSON.
	TokenPath string `json:"token_path"`

	// PollInterval is how often the calendar is polled.
	PollInterval time.Duration `json:"poll_interval"`

	// Lookahead bounds how far into the future events are fetched.
	Lookahead time.Duration `json:"lookahead"`

	// Ports contains input/output port definitions.
	Ports *component.PortConfig `json:"ports,omitempty"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:      "data",
		PollInterval: 5 * time.Minute,
		Lookahead:    30 * 24 * time.Hour,
		Ports: &component.PortConfig{
			Outputs: []component.PortDefinition{
				{
					Name:        "calendar-records",
					Type:        "jetstream",
					Subject:     recordSubject,
					StreamName:  "CAPTURE",
					Description: "Publish captured calendar event records",
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
	if c.Lookahead <= 0 {
		return fmt.Errorf("lookahead must be positive")
	}
	return nil
}
