package identity

import "errors"

var (
	// ErrProfileNotFound is returned when no profile matches a lookup.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidUsername is returned for blank game usernames.
	ErrInvalidUsername = errors.New("invalid game username")
	// ErrPlayerNotFound is returned when the player directory has no such player.
	ErrPlayerNotFound = errors.New("player not found in directory")
	// ErrNotInClan is returned when the player belongs to another clan.
	ErrNotInClan = errors.New("player is not a member of the clan")
	// ErrNoPendingVerification is returned by Confirm without a preceding Start.
	ErrNoPendingVerification = errors.New("no pending verification")
	// ErrVerificationExpired is returned when the code is older than its lifetime.
	ErrVerificationExpired = errors.New("verification code expired")
	// ErrCodeMismatch is returned when the code is not in the player's personal message.
	ErrCodeMismatch = errors.New("verification code not found in personal message")
)
