package clipboardwatcher

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the clipboard-watcher processor component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "clipboard-watcher",
		Factory:     NewComponent,
		Schema:      clipboardWatcherSchema,
		Type:        "processor",
		Protocol:    "nats",
		Domain:      "capture",
		Description: "Clipboard poller for local data capture",
		Version:     "0.1.0",
	})
}
