// Package retry is the single backoff policy applied to external calls made by the
// polling jobs (feed fetches, player directory lookups).
//
// Business logic never retries on its own: a job wraps its I/O in Do, and whatever
// still fails after the policy gives up aborts that cycle. Idempotency markers make
// the next cycle safe to repeat.
//
// Errors wrapped with Permanent (for example a 404 from the game API) stop at once.
//
// # Usage
//
//	p := retry.New(cfg.Retry, log)
//	records, err := retry.Do(ctx, p, "ledger_feed", func() ([]gameapi.LedgerRecord, error) {
//	    return client.Ledger(ctx)
//	})
package retry
