// Package lock keeps ingestion cycles from overlapping.
//
// A scheduled poll and a manual trigger for the same feed share one lock name; whoever
// loses TryLock skips the cycle instead of waiting.
//
// Two backends are available:
//   - Local: in-process map, the default for a single replica.
//   - Redis: SET NX PX with a random token and a compare-and-delete release script,
//     for several replicas sharing one database.
package lock
