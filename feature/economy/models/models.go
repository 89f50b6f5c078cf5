package models

import "time"

// Currencies tracked on every economy record.
const (
	CurrencyGold = "gold"
	CurrencyGems = "gems"
)

// Resolution methods stored on markers and audit rows.
const (
	MatchCurrent = "current"
	MatchHistory = "history"
	MatchNone    = "none"
)

// Marker statuses.
const (
	StatusApplied    = "applied"
	StatusUnresolved = "unresolved"
)

// Record is the per-player balance document, keyed by the lowercased canonical username.
// Balances may go negative (debt).
type Record struct {
	UsernameKey  string    `gorm:"column:username_key;primaryKey;size:64" json:"-"`
	Username     string    `gorm:"column:username;size:64;not null" json:"username"`
	Gold         int64     `gorm:"column:gold;not null;default:0" json:"gold"`
	Gems         int64     `gorm:"column:gems;not null;default:0" json:"gems"`
	GoldDonated  int64     `gorm:"column:gold_donated;not null;default:0" json:"gold_donated"`
	GemsDonated  int64     `gorm:"column:gems_donated;not null;default:0" json:"gems_donated"`
	RewardPoints int64     `gorm:"column:reward_points;not null;default:0;index" json:"reward_points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "economy_records"
}

// Achievement is one unlocked achievement code. The unique pair makes unlocks add-if-absent.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UsernameKey string    `gorm:"column:username_key;size:64;not null;uniqueIndex:idx_achievement_owner_code" json:"-"`
	Code        string    `gorm:"column:code;size:64;not null;uniqueIndex:idx_achievement_owner_code" json:"code"`
	UnlockedAt  time.Time `gorm:"column:unlocked_at" json:"unlocked_at"`
}

// TableName overrides the table name.
func (Achievement) TableName() string {
	return "economy_achievements"
}

// LedgerEvent is the idempotency marker and audit row of one donation feed record.
// Rows are only ever inserted.
type LedgerEvent struct {
	SourceID         string    `gorm:"column:source_id;primaryKey;size:128" json:"source_id"`
	Status           string    `gorm:"column:status;size:16;not null" json:"status"`
	Username         string    `gorm:"column:username;size:64" json:"username"`
	UsernameKey      string    `gorm:"column:username_key;size:64;index" json:"-"`
	OriginalUsername string    `gorm:"column:original_username;size:64" json:"original_username"`
	Match            string    `gorm:"column:match_method;size:16" json:"match"`
	Gold             int64     `gorm:"column:gold" json:"gold"`
	Gems             int64     `gorm:"column:gems" json:"gems"`
	ObservedAt       time.Time `gorm:"column:observed_at;index" json:"observed_at"`
	ProcessedAt      time.Time `gorm:"column:processed_at;autoCreateTime" json:"processed_at"`
}

// TableName overrides the table name.
func (LedgerEvent) TableName() string {
	return "ledger_events"
}

// MissionEvent is the idempotency marker and audit row of one mission.
type MissionEvent struct {
	MissionID              string    `gorm:"column:mission_id;primaryKey;size:128" json:"mission_id"`
	Status                 string    `gorm:"column:status;size:16;not null" json:"status"`
	Currency               string    `gorm:"column:currency;size:8" json:"currency"`
	Source                 string    `gorm:"column:source;size:16" json:"source"`
	Outcome                string    `gorm:"column:outcome;size:32" json:"outcome"`
	TierStartTime          string    `gorm:"column:tier_start_time;size:64" json:"tier_start_time,omitempty"`
	CostPerParticipant     int64     `gorm:"column:cost_per_participant" json:"cost_per_participant"`
	TotalCost              int64     `gorm:"column:total_cost" json:"total_cost"`
	RawParticipants        int       `gorm:"column:raw_participants" json:"raw_participants"`
	ResolvedParticipants   int       `gorm:"column:resolved_participants" json:"resolved_participants"`
	UnresolvedParticipants int       `gorm:"column:unresolved_participants" json:"unresolved_participants"`
	AliasResolutions       int       `gorm:"column:alias_resolutions" json:"alias_resolutions"`
	LinkedParticipants     int       `gorm:"column:linked_participants" json:"linked_participants"`
	ProcessedAt            time.Time `gorm:"column:processed_at;autoCreateTime" json:"processed_at"`

	Participants []MissionParticipant `gorm:"foreignKey:MissionID;references:MissionID" json:"participants,omitempty"`
}

// TableName overrides the table name.
func (MissionEvent) TableName() string {
	return "mission_events"
}

// MissionParticipant records how one participant of a mission was attributed and debited.
type MissionParticipant struct {
	ID               uint   `gorm:"primaryKey" json:"-"`
	MissionID        string `gorm:"column:mission_id;size:128;not null;index" json:"-"`
	Username         string `gorm:"column:username;size:64" json:"username"`
	UsernameKey      string `gorm:"column:username_key;size:64;index" json:"-"`
	OriginalUsername string `gorm:"column:original_username;size:64" json:"original_username"`
	Match            string `gorm:"column:match_method;size:16" json:"match"`
	Linked           bool   `gorm:"column:linked" json:"linked"`
	Cost             int64  `gorm:"column:cost" json:"cost"`
}

// TableName overrides the table name.
func (MissionParticipant) TableName() string {
	return "mission_participants"
}

// Reward history event kinds.
const (
	EventPoints      = "points"
	EventAchievement = "achievement"
)

// RewardEvent is one append-only reward history row carrying the running total after it.
type RewardEvent struct {
	ID             string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UsernameKey    string    `gorm:"column:username_key;size:64;not null;index:idx_reward_owner_time" json:"-"`
	Username       string    `gorm:"column:username;size:64" json:"username"`
	EventType      string    `gorm:"column:event_type;size:16;not null" json:"event_type"`
	PointType      string    `gorm:"column:point_type;size:32;index" json:"point_type"`
	Points         int64     `gorm:"column:points" json:"points"`
	Amount         int64     `gorm:"column:amount" json:"amount"`
	RunningTotal   int64     `gorm:"column:running_total" json:"running_total"`
	Achievement    string    `gorm:"column:achievement;size:64" json:"achievement,omitempty"`
	IdempotencyKey *string   `gorm:"column:idempotency_key;size:191;uniqueIndex" json:"-"`
	Metadata       string    `gorm:"column:metadata;type:text" json:"metadata,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;index:idx_reward_owner_time" json:"created_at"`
}

// TableName overrides the table name.
func (RewardEvent) TableName() string {
	return "reward_history"
}

// All lists every model for migrations.
func All() []any {
	return []any{
		&Record{},
		&Achievement{},
		&LedgerEvent{},
		&MissionEvent{},
		&MissionParticipant{},
		&RewardEvent{},
	}
}
