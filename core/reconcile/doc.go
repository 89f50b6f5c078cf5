// Package reconcile repairs economy records left under a player's old game username.
//
// Renames normally merge the old record into the new one when the link is saved. When that
// merge fails, or a record was created under an alias before the rename was known, the
// balance stays split. The reconciler compares two sources of truth:
//
//  1. Ledger: every economy record key.
//  2. Aliases: every stale game username in the profile name history, mapped to the
//     profile's current username.
//
// A record whose key is a stale alias is planned for a merge into the current record.
// Aliases that another profile currently uses are contested and never merged.
//
// # Usage
//
//	engine := reconcile.NewEngine(identityStore, economyStore, logger)
//	plan, err := engine.Plan(ctx)
//	executed, err := engine.Apply(ctx, plan, reconcile.Options{Confirmed: true})
//
// Apply does nothing unless the options are confirmed and not a dry run.
package reconcile
