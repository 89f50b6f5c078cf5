package identity

import (
	"context"
	"errors"

	"clan-ledger/core/gameapi"
	"clan-ledger/core/retry"

	"go.uber.org/zap"
)

// RefreshSummary reports one pass over linked profiles.
type RefreshSummary struct {
	Checked int      `json:"checked"`
	Renamed int      `json:"renamed"`
	Missing int      `json:"missing"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Refresher re-reads linked players from the directory and applies renames.
type Refresher struct {
	store     *Store
	linker    *Linker
	directory Directory
	policy    *retry.Policy
	logger    *zap.Logger
}

// NewRefresher creates a refresher. policy may be nil to call the directory once.
func NewRefresher(store *Store, linker *Linker, directory Directory, policy *retry.Policy, logger *zap.Logger) *Refresher {
	return &Refresher{store: store, linker: linker, directory: directory, policy: policy, logger: logger}
}

// RefreshLinked checks every linked profile. A changed username is applied through the
// linker so history and the economy record follow the rename.
func (r *Refresher) RefreshLinked(ctx context.Context) (RefreshSummary, error) {
	var summary RefreshSummary
	profiles, err := r.store.ListLinked(ctx)
	if err != nil {
		return summary, err
	}

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Checked++
		accountID := *p.GameAccountID

		player, err := r.lookup(ctx, accountID)
		if errors.Is(err, gameapi.ErrNotFound) {
			summary.Missing++
			continue
		}
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, accountID+": "+err.Error())
			r.logger.Warn("Profile refresh failed", zap.Uint("profile_id", p.ID), zap.Error(err))
			continue
		}
		if player.Username == "" || player.Username == p.GameUsername {
			continue
		}

		res, err := r.linker.Link(ctx, LinkRequest{
			ChatID:        *p.ChatID,
			GameUsername:  player.Username,
			GameAccountID: accountID,
		})
		if err != nil || res.Conflict {
			summary.Failed++
			msg := res.Reason
			if err != nil {
				msg = err.Error()
			}
			summary.Errors = append(summary.Errors, accountID+": "+msg)
			continue
		}
		summary.Renamed++
	}

	r.logger.Info("Linked profiles refreshed",
		zap.Int("checked", summary.Checked),
		zap.Int("renamed", summary.Renamed),
		zap.Int("missing", summary.Missing),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r *Refresher) lookup(ctx context.Context, accountID string) (*gameapi.Player, error) {
	if r.policy == nil {
		return r.directory.PlayerByID(ctx, accountID)
	}
	return retry.Do(ctx, r.policy, "player_by_id", func() (*gameapi.Player, error) {
		return r.directory.PlayerByID(ctx, accountID)
	})
}
