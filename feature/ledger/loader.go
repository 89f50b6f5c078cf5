package ledger

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the ledger feature.
func NewFeature(handler *Handler) *Feature {
	return &Feature{handler: handler}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "ledger"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
