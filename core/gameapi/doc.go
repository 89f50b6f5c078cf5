// Package gameapi is the HTTP client for the game REST API: the clan ledger and active
// quest feeds, the clan member list and the player directory used by the verification
// workflow.
//
// Requests carry "Authorization: Bot <key>", pass through a token-bucket rate limiter
// and are bounded by a per-request timeout. Concurrent directory lookups for the same
// player are coalesced with singleflight.
//
// The client does not retry. It marks responses that can never succeed (404, other
// 4xx except 429, undecodable bodies) with retry.Permanent so the caller's policy stops
// at once; 429, 5xx and network errors are left transient.
//
// Ledger amounts arrive as numbers or numeric strings and timestamps as RFC 3339
// strings or unix epochs; LedgerRecord decodes all of them.
package gameapi
