package provider

import "context"

// Provider is what a Registry and Manager need to know about a backend.
// Domain interfaces such as llm.Provider embed it and add their own calls.
type Provider interface {
	// Name is the registry name, e.g. "clarifai".
	Name() string
	// IsAvailable reports whether the backend is usable as configured.
	// Selectors skip backends that report false. Implementations may decide
	// from configuration alone without contacting the backend.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a backend from a decoded config map, such as a config
// file section or the map returned by a backend's Config.Map.
type Factory[T Provider] func(cfg map[string]any) (T, error)
