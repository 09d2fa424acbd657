package archive

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	archiver *Archiver
	handler  *Handler
}

// NewFeature creates the archive feature. A nil archiver disables it.
func NewFeature(archiver *Archiver) *Feature {
	f := &Feature{archiver: archiver}
	if archiver != nil {
		f.handler = NewHandler(archiver)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "archive"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.archiver != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
