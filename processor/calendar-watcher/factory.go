package calendarwatcher

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the calendar-watcher processor component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "calendar-watcher",
		Factory:     NewComponent,
		Schema:      calendarWatcherSchema,
		Type:        "processor",
		Protocol:    "nats",
		Domain:      "capture",
		Description: "Google Calendar poller for upcoming event capture",
		Version:     "0.1.0",
	})
}
