package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"clan-ledger/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunEconomy bool
	yesConfirm    bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair records that drifted apart",
}

// economyReconcileCmd merges economy records left under old game usernames.
var economyReconcileCmd = &cobra.Command{
	Use:   "economy",
	Short: "Merge economy records stored under a player's old username",
	Long: `Lists economy records whose key is a historical game username of a linked player
and merges them into the player's current record.

Aliases that another player currently uses are reported and never merged.

Examples:
  # Report only
  reconcile economy --dry-run

  # Merge with interactive confirmation
  reconcile economy

  # Merge with auto-confirm (non-interactive)
  reconcile economy --yes`,
	RunE: runEconomyReconcile,
}

func init() {
	reconcileCmd.AddCommand(economyReconcileCmd)

	economyReconcileCmd.Flags().BoolVar(&dryRunEconomy, "dry-run", false, "Report only, never merge")
	economyReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm merges (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runEconomyReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	l := s.logger

	engine := reconcile.NewEngine(s.profiles, s.economy, l.Named("reconcile"))
	opts := reconcile.Options{DryRun: dryRunEconomy}

	l.Info("Planning reconciliation...")
	plan, err := engine.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}
	printReconcileReport(l, plan)

	if len(plan.Actions) == 0 {
		l.Info("No actions required.")
		return nil
	}
	if dryRunEconomy {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	l.Info("Applying actions...")
	executed, err := engine.Apply(ctx, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan after %d merges: %w", executed, err)
	}
	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary
	l.Info("Reconciliation report",
		zap.Int("records", s.Records),
		zap.Int("aliases", s.Aliases),
		zap.Int("stale", s.Stale),
		zap.Int("contested", s.Contested),
	)

	for _, r := range plan.Results {
		if r.Status == reconcile.StatusContested {
			l.Warn("Contested alias",
				zap.String("key", r.Key),
				zap.Uint("former_owner", r.ProfileID),
				zap.Uint("current_holder", r.HolderID),
			)
		}
	}

	maxShow := min(len(plan.Actions), 10)
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Planned merge",
			zap.String("from", action.From),
			zap.String("to", action.To),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to merge the records above: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
