// Package identity keeps one profile per real player across the chat platform and the
// game, and maps whatever username a feed or a human supplies to the player's current
// game name.
//
// The Resolver only reads. The Linker is the only writer of identity fields; when it
// observes a rename it appends to the profile's name history and asks the economy
// store to merge the old record into the new one. The Verifier proves ownership of a
// game account through a code placed in the player's personal message, and the
// Refresher periodically applies renames reported by the game directory.
package identity
