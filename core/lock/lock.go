package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Locker grants exclusive, non-blocking ownership of a named cycle.
type Locker interface {
	// TryLock acquires name if free. ok is false when another holder owns it.
	// The returned release func is safe to call once ok is true.
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// New builds the Locker selected by cfg.
func New(ctx context.Context, cfg Config) (Locker, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported lock backend %q", cfg.Backend)
	}
}

// Local is an in-process Locker.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocal creates an in-process Locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

// TryLock implements Locker. ttl is ignored; the holder always releases.
func (l *Local) TryLock(_ context.Context, name string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[name]; busy {
		return nil, false, nil
	}
	l.held[name] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
	}, true, nil
}
