package rewards

import (
	"time"
	_ "time/tzdata"
)

// Config holds reward reporting settings.
type Config struct {
	// Timezone is the IANA zone periods (day, week, month) start in.
	Timezone string `mapstructure:"timezone" default:"Europe/Rome"`
	// LeaderboardLimit caps leaderboard entries when the caller gives none.
	LeaderboardLimit int `mapstructure:"leaderboard_limit" default:"10"`
}

// Location returns the configured zone, UTC when it cannot be loaded.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
