package models

import "time"

// Verification states.
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending-code"
	VerificationVerified   = "verified"
)

// Name history kinds.
const (
	NameKindGame = "game"
	NameKindChat = "chat"
)

// Profile is one real player across the chat platform and the game.
// GameUsernameKey, ChatID and GameAccountID are nullable so unlinked profiles do not
// collide on their unique indexes.
type Profile struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	ChatID             *int64     `gorm:"column:chat_id;uniqueIndex" json:"chat_id,omitempty"`
	ChatUsername       string     `gorm:"column:chat_username;size:64" json:"chat_username,omitempty"`
	ChatDisplayName    string     `gorm:"column:chat_display_name;size:128" json:"chat_display_name,omitempty"`
	GameUsername       string     `gorm:"column:game_username;size:64" json:"game_username,omitempty"`
	GameUsernameKey    *string    `gorm:"column:game_username_key;size:64;uniqueIndex" json:"-"`
	GameAccountID      *string    `gorm:"column:game_account_id;size:64;uniqueIndex" json:"game_account_id,omitempty"`
	VerificationStatus string     `gorm:"column:verification_status;size:16;not null;default:unverified" json:"verification_status"`
	VerificationMethod string     `gorm:"column:verification_method;size:32" json:"verification_method,omitempty"`
	VerifiedAt         *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
	PendingCode        string     `gorm:"column:pending_code;size:16" json:"-"`
	PendingAccountID   string     `gorm:"column:pending_account_id;size:64" json:"-"`
	PendingUsername    string     `gorm:"column:pending_username;size:64" json:"-"`
	PendingSince       *time.Time `gorm:"column:pending_since" json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Names         []NameHistory       `gorm:"foreignKey:ProfileID" json:"-"`
	Verifications []VerificationEvent `gorm:"foreignKey:ProfileID" json:"-"`
}

// TableName overrides the table name.
func (Profile) TableName() string {
	return "profiles"
}

// IsLinked reports whether the profile is bound to a game account.
func (p *Profile) IsLinked() bool {
	return p.GameUsername != ""
}

// NameHistory records a name a profile held, with the time it became current.
// Rows are never removed, so lookups by an old alias keep working.
type NameHistory struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	ProfileID       uint      `gorm:"column:profile_id;not null;index" json:"-"`
	Kind            string    `gorm:"column:kind;size:8;not null;index:idx_name_lookup" json:"kind"`
	Name            string    `gorm:"column:name;size:128;not null" json:"name"`
	NameKey         string    `gorm:"column:name_key;size:128;not null;index:idx_name_lookup" json:"-"`
	BecameCurrentAt time.Time `gorm:"column:became_current_at;not null" json:"became_current_at"`
}

// TableName overrides the table name.
func (NameHistory) TableName() string {
	return "profile_name_history"
}

// VerificationEvent is one successful verification of a profile.
type VerificationEvent struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	ProfileID     uint      `gorm:"column:profile_id;not null;index" json:"-"`
	Method        string    `gorm:"column:method;size:32" json:"method"`
	Code          string    `gorm:"column:code;size:16" json:"code,omitempty"`
	GameUsername  string    `gorm:"column:game_username;size:64" json:"game_username"`
	GameAccountID string    `gorm:"column:game_account_id;size:64" json:"game_account_id,omitempty"`
	Metadata      string    `gorm:"column:metadata;type:text" json:"metadata,omitempty"`
	VerifiedAt    time.Time `gorm:"column:verified_at" json:"verified_at"`
}

// TableName overrides the table name.
func (VerificationEvent) TableName() string {
	return "profile_verifications"
}

// All lists every model for migrations.
func All() []any {
	return []any{&Profile{}, &NameHistory{}, &VerificationEvent{}}
}
