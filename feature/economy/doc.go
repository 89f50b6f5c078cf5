// Package economy is the ledger store: per-player balance records keyed by the lowercased
// canonical username, the idempotency markers of both feeds, and the reward history.
//
// # Invariants
//
//   - Counters only change through SQL-side increments ("gold + ?"), so concurrent
//     increments on one record never lose updates.
//   - A marker is claimed with an insert-if-absent in the same transaction that applies
//     the balance change. Two ingestions racing on one source id cannot both apply it;
//     the loser sees applied=false and nothing else happens.
//   - Balances may go negative, which represents debt from mission costs.
//
// # Merge
//
// Merge(from, to) is the rename path used by the identity linker. It sums both currencies,
// donation totals and points into the target, unions achievements, moves reward history
// rows to the new key and deletes the old record.
//
// # HTTP
//
//	GET  /economy/balances
//	GET  /economy/balances/:username
//	POST /economy/adjust
package economy
