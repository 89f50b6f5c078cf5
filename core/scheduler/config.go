package scheduler

import "time"

// Config holds the polling intervals of the scheduled jobs.
type Config struct {
	// Enabled starts the scheduler with the server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Ledger is the donation feed polling interval.
	Ledger time.Duration `mapstructure:"ledger" default:"5m"`
	// Mission is the active mission polling interval.
	Mission time.Duration `mapstructure:"mission" default:"5m"`
	// ProfileSyncMinutes is the linked profile refresh interval in minutes.
	ProfileSyncMinutes int `mapstructure:"profile_sync_minutes" default:"15"`
	// Prepopulate is the clan member prepopulation interval.
	Prepopulate time.Duration `mapstructure:"prepopulate" default:"72h"`
	// RunTimeout bounds one job run.
	RunTimeout time.Duration `mapstructure:"run_timeout" default:"4m"`
}

// ProfileSync returns the profile refresh interval, at least one minute.
func (c Config) ProfileSync() time.Duration {
	if c.ProfileSyncMinutes < 1 {
		return time.Minute
	}
	return time.Duration(c.ProfileSyncMinutes) * time.Minute
}
