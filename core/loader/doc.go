// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which defines its name, an
// enabled flag and its route registration. The Manager registers features and
// loads the enabled ones into the Fiber router in registration order.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
package loader
