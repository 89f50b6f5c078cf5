// Package integrity provides health checks of the persistent state.
//
// # Checks Provided
//
//   - Schema: Verifies that every table has the columns the models expect.
//   - Archive: Checks that the feed archive bucket exists when archiving is enabled.
//   - Aliases: Reports economy records still stored under a player's old username.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
//   - GET /integrity/aliases : Runs the alias check. Repairs go through `reconcile economy`.
package integrity
