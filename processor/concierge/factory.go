package concierge

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the concierge processor component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "concierge",
		Factory:     NewComponent,
		Schema:      conciergeSchema,
		Type:        "processor",
		Protocol:    "nats",
		Domain:      "capture",
		Description: "Intent classification and action suggestions for clipboard captures",
		Version:     "0.1.0",
	})
}
