package reconcile

import "context"

// Source is one side of a reconciliation.
type Source interface {
	// Name identifies the source in results and actions (e.g. "mirror", "database").
	Name() string

	// Load returns every key the source holds, mapped to a human readable locator.
	// Implementations should list in bulk rather than probe key by key.
	Load(ctx context.Context) (map[string]string, error)
}

// Purger is a Source that can delete keys. Only purgers receive delete actions.
type Purger interface {
	Source

	// Purge deletes the given keys, which were returned by the last Load.
	Purge(ctx context.Context, keys []string) error
}

// Spec bundles the sources of one reconciliation.
type Spec struct {
	// Expected is the source of truth.
	Expected Source

	// Targets are compared against Expected. Names must be unique.
	Targets []Source
}
