// Package ledger ingests the clan's donation ledger and mission costs exactly once.
//
// Every record is attributed through the identity resolver and applied through the
// economy store, which claims the record's idempotency marker and performs the balance
// increments in one transaction. Re-delivered records are no-ops. Mission costs are
// computed after resolution, so unresolved participants never move the headcount tiers.
package ledger
