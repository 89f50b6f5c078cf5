package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clan-ledger/core/retry"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func fastPolicy(tries uint) *retry.Policy {
	return retry.New(retry.Config{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      2,
		MaxTries:        tries,
		MaxElapsed:      time.Second,
	}, zap.NewNop())
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := retry.Do(context.Background(), fastPolicy(3), "feed", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("connection reset")
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUpAfterMaxTries(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), fastPolicy(2), "feed", func() (int, error) {
		calls++
		return 0, errors.New("unreachable")
	})

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	notFound := errors.New("not found")
	calls := 0
	_, err := retry.Do(context.Background(), fastPolicy(5), "player", func() (int, error) {
		calls++
		return 0, retry.Permanent(notFound)
	})

	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retry.Do(ctx, fastPolicy(5), "feed", func() (int, error) {
		return 0, errors.New("unreachable")
	})
	assert.Error(t, err)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, retry.IsPermanent(retry.Permanent(errors.New("x"))))
	assert.False(t, retry.IsPermanent(errors.New("x")))
	assert.NoError(t, retry.Permanent(nil))
}
