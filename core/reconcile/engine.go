package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"clan-ledger/feature/identity"
	idmodels "clan-ledger/feature/identity/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine plans and applies alias repairs.
type Engine struct {
	aliases Aliases
	ledger  Ledger
	logger  *zap.Logger
}

// NewEngine creates an engine.
func NewEngine(aliases Aliases, ledger Ledger, logger *zap.Logger) *Engine {
	return &Engine{aliases: aliases, ledger: ledger, logger: logger}
}

// index is the state both sides report, loaded concurrently.
type index struct {
	keys    []string
	aliases map[string]idmodels.Profile
}

func (e *Engine) load(ctx context.Context) (*index, error) {
	var idx index
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keys, err := e.ledger.Keys(gctx)
		idx.keys = keys
		return err
	})
	g.Go(func() error {
		aliases, err := e.aliases.AliasesOf(gctx)
		idx.aliases = aliases
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Scan returns one result per economy record stored under a stale alias, sorted by key.
func (e *Engine) Scan(ctx context.Context) ([]Result, int, int, error) {
	idx, err := e.load(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	var results []Result
	for _, key := range idx.keys {
		owner, ok := idx.aliases[key]
		if !ok {
			continue
		}
		result := Result{Key: key, Current: owner.GameUsername, ProfileID: owner.ID, Status: StatusStale}

		holder, err := e.aliases.ByCurrentUsername(ctx, key)
		switch {
		case err == nil && holder.ID != owner.ID:
			result.Status = StatusContested
			result.HolderID = holder.ID
		case err != nil && !errors.Is(err, identity.ErrProfileNotFound):
			return nil, 0, 0, fmt.Errorf("failed to check current holder of %s: %w", key, err)
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results, len(idx.keys), len(idx.aliases), nil
}
