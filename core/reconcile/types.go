package reconcile

// Result statuses.
const (
	// StatusStale marks a record under an alias of a known player.
	StatusStale = "stale"
	// StatusContested marks a record whose key is also another player's current name.
	StatusContested = "contested"
)

// Result is the reconciliation outcome of one economy record.
type Result struct {
	// Key is the economy record key.
	Key string `json:"key"`

	// Current is the username the record belongs to now.
	Current string `json:"current"`

	// ProfileID is the profile whose history holds Key.
	ProfileID uint `json:"profile_id"`

	// Status is stale or contested.
	Status string `json:"status"`

	// HolderID is set for contested records: the profile currently using Key.
	HolderID uint `json:"holder_id,omitempty"`
}

// ActionType represents the type of repair action.
type ActionType string

// ActionMerge folds an alias record into the current record.
const ActionMerge ActionType = "merge"

// Action represents a planned repair.
type Action struct {
	Type   ActionType `json:"type"`
	From   string     `json:"from"`
	To     string     `json:"to"`
	Reason string     `json:"reason"`
}

// Plan contains reconciliation results and planned actions.
type Plan struct {
	Results []Result    `json:"results"`
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate counts.
type PlanSummary struct {
	// Records is the number of economy records scanned.
	Records int `json:"records"`

	// Aliases is the number of stale aliases in the profile history.
	Aliases int `json:"aliases"`

	// Stale counts records planned for a merge.
	Stale int `json:"stale"`

	// Contested counts records skipped because the alias is someone's current name.
	Contested int `json:"contested"`

	// MergeActions counts planned merges.
	MergeActions int `json:"merge_actions"`
}

// Options controls whether Apply mutates anything.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the operator confirmed the merges.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
