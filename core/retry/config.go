package retry

import "time"

// Config holds the backoff policy for transient I/O.
type Config struct {
	// InitialInterval is the first wait between attempts.
	InitialInterval time.Duration `mapstructure:"initial_interval" default:"1s"`
	// MaxInterval caps a single wait.
	MaxInterval time.Duration `mapstructure:"max_interval" default:"30s"`
	// Multiplier grows the wait after each failed attempt.
	Multiplier float64 `mapstructure:"multiplier" default:"2"`
	// MaxTries is the total number of attempts, the first included.
	MaxTries uint `mapstructure:"max_tries" default:"3"`
	// MaxElapsed bounds the total time spent retrying.
	MaxElapsed time.Duration `mapstructure:"max_elapsed" default:"2m"`
}
