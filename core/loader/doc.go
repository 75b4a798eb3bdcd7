// Package loader provides the feature loading system of the preview server.
//
// Each feature implements the Feature interface, which names it, reports whether
// it is enabled and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll(), in registration order
//
// The catalog preview is the only feature today; new route groups plug in the
// same way.
package loader
