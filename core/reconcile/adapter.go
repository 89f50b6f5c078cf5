package reconcile

import (
	"context"

	"clan-ledger/feature/economy"
	idmodels "clan-ledger/feature/identity/models"
)

// Aliases is the profile side of the reconciliation.
type Aliases interface {
	// AliasesOf maps every stale game username key to the profile that used it last.
	AliasesOf(ctx context.Context) (map[string]idmodels.Profile, error)
	// ByCurrentUsername returns the profile currently using username.
	ByCurrentUsername(ctx context.Context, username string) (*idmodels.Profile, error)
}

// Ledger is the economy side of the reconciliation.
type Ledger interface {
	// Keys lists every economy record key.
	Keys(ctx context.Context) ([]string, error)
	// Merge folds the record of from into the record of to.
	Merge(ctx context.Context, from, to string) (economy.MergeResult, error)
}
