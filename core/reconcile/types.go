package reconcile

// Result is the reconciliation outcome of one key across all sources.
type Result struct {
	// Key identifies the item in every source.
	Key string `json:"key"`

	// Name is a human readable locator, taken from the expected source when present.
	Name string `json:"name"`

	// Expected reports whether the expected source lists the key.
	Expected bool `json:"expected"`

	// Present maps each target source name to whether it holds the key.
	Present map[string]bool `json:"present"`
}

// ActionType represents the type of a planned action.
type ActionType string

const (
	// ActionUpload marks an expected key missing from a target.
	ActionUpload ActionType = "upload"
	// ActionDelete marks a target key the expected source does not list.
	ActionDelete ActionType = "delete"
)

// Action represents one planned operation on a target.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Target is the name of the source the action applies to.
	Target string `json:"target"`

	// Key is the item identifier.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// Plan contains reconciliation results and planned actions.
type Plan struct {
	// Results contains one entry per key, sorted by key.
	Results []Result `json:"results"`

	// Actions contains planned operations, sorted by target then key.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a plan.
type Summary struct {
	// TotalItems is the number of distinct keys across all sources.
	TotalItems int `json:"total_items"`

	// Expected is the number of keys listed by the expected source.
	Expected int `json:"expected"`

	// Missing counts expected keys absent from each target.
	Missing map[string]int `json:"missing"`

	// Stale counts target keys the expected source does not list.
	Stale map[string]int `json:"stale"`

	// PurgeActions counts planned delete actions.
	PurgeActions int `json:"purge_actions"`
}

// Options controls planning and execution of purges.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge plans deletion of stale keys from purgeable targets.
	DoPurge bool

	// Confirmed indicates the caller has confirmed destructive actions.
	// If false, ApplyPlan executes nothing regardless of DryRun.
	Confirmed bool
}
