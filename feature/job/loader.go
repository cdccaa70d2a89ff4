package job

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the compare feature.
func NewFeature(service *Service, timeout time.Duration) *Feature {
	return &Feature{service: service, handler: NewHandler(service, timeout)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "compare"
}

// IsEnabled reports whether a job is configured.
func (f *Feature) IsEnabled() bool {
	return len(f.service.cfg.PrimaryKey) > 0
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
