package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Plan scans both sources and returns the merges that would repair them.
// It does NOT execute actions; use Apply for that.
func (e *Engine) Plan(ctx context.Context) (*Plan, error) {
	results, records, aliases, err := e.Scan(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Results: results}
	plan.Summary.Records = records
	plan.Summary.Aliases = aliases
	for _, r := range results {
		if r.Status == StatusContested {
			plan.Summary.Contested++
			continue
		}
		plan.Summary.Stale++
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionMerge,
			From:   r.Key,
			To:     r.Current,
			Reason: fmt.Sprintf("alias of profile %d", r.ProfileID),
		})
		plan.Summary.MergeActions++
	}
	return plan, nil
}

// Apply executes the actions of plan and returns how many ran.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func (e *Engine) Apply(ctx context.Context, plan *Plan, opts Options) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	for _, action := range plan.Actions {
		if action.Type != ActionMerge {
			continue
		}
		res, err := e.ledger.Merge(ctx, action.From, action.To)
		if err != nil {
			return executed, fmt.Errorf("failed to merge %s into %s: %w", action.From, action.To, err)
		}
		e.logger.Info("Alias record repaired",
			zap.String("from", action.From),
			zap.String("to", action.To),
			zap.String("status", res.Status),
		)
		executed++
	}
	return executed, nil
}

// ReconcileAndApply plans and optionally applies the repairs.
func (e *Engine) ReconcileAndApply(ctx context.Context, opts Options) (*Plan, int, error) {
	plan, err := e.Plan(ctx)
	if err != nil {
		return nil, 0, err
	}
	executed, err := e.Apply(ctx, plan, opts)
	return plan, executed, err
}
