package ledger

import "clan-ledger/feature/economy/models"

// Config holds the ingestion business parameters.
type Config struct {
	// DonationType is the feed type tag of donation records.
	DonationType string `mapstructure:"donation_type" default:"DONATE"`
	// GoldMissionCost is debited from every participant of a gold mission.
	GoldMissionCost int64 `mapstructure:"gold_mission_cost" default:"500"`
	// GemMissionCost is debited per participant of a gem mission with
	// GemMinParticipants to GemLargeAbove participants.
	GemMissionCost int64 `mapstructure:"gem_mission_cost" default:"150"`
	// GemMissionCostLarge applies above GemLargeAbove participants.
	GemMissionCostLarge int64 `mapstructure:"gem_mission_cost_large" default:"140"`
	// GemMinParticipants is the headcount below which a gem mission costs nothing.
	GemMinParticipants int `mapstructure:"gem_min_participants" default:"5"`
	GemLargeAbove      int `mapstructure:"gem_large_above" default:"7"`
}

// MissionCost returns the per-participant cost of a mission in currency with
// participants resolved players.
func (c Config) MissionCost(currency string, participants int) int64 {
	switch currency {
	case models.CurrencyGold:
		return c.GoldMissionCost
	case models.CurrencyGems:
		switch {
		case participants > c.GemLargeAbove:
			return c.GemMissionCostLarge
		case participants >= c.GemMinParticipants:
			return c.GemMissionCost
		}
	}
	return 0
}
