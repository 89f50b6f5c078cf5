// Package rewards computes reward points from economic events and unlocks achievements.
//
// Point types resolve through an alias table and compute points in one of three modes:
// fixed, ratio or donation (units of a currency amount times a weight, with a floor).
// Every non-zero award increments the player's point counter and appends a reward
// history row carrying the running total; achievement criteria are then evaluated over
// a metrics snapshot built from the economy record and the history breakdown.
package rewards
