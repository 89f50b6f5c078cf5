package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Policy wraps external calls with exponential backoff.
type Policy struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a policy, filling zero values with safe defaults.
func New(cfg Config, logger *zap.Logger) *Policy {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = time.Second
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 30 * time.Second
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = 3
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{cfg: cfg, logger: logger}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}

// Do runs op until it succeeds, returns a permanent error, or the policy gives up.
func Do[T any](ctx context.Context, p *Policy, name string, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.InitialInterval
	b.MaxInterval = p.cfg.MaxInterval
	b.Multiplier = p.cfg.Multiplier

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		return op()
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.cfg.MaxTries),
		backoff.WithMaxElapsedTime(p.cfg.MaxElapsed),
		backoff.WithNotify(func(err error, wait time.Duration) {
			p.logger.Warn("Transient failure, retrying",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}),
	)
}
