package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ingestCmd is the parent command for one-shot ingestion cycles.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion cycle and exit",
	Long: `Runs the same cycle the scheduler runs, once. Records already processed are
skipped, so running it next to a live server is safe.`,
}

var ingestLedgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Fetch and ingest the clan donation ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, s *services) error {
			if err := s.jobs.Donations(ctx); err != nil {
				return err
			}
			if b := s.jobs.Status().LastBatch; b != nil {
				s.logger.Info("Ledger ingested",
					zap.Int("seen", b.Seen),
					zap.Int("applied", b.Applied),
					zap.Int("duplicate", b.Duplicate),
					zap.Int("unresolved", b.Unresolved),
					zap.Int("failed", b.Failed),
				)
			}
			return nil
		})
	},
}

var ingestMissionCmd = &cobra.Command{
	Use:   "mission",
	Short: "Fetch the active mission and charge its participants",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, s *services) error {
			if err := s.jobs.Mission(ctx); err != nil {
				return err
			}
			if m := s.jobs.Status().LastMission; m != nil {
				s.logger.Info("Mission ingested",
					zap.String("mission_id", m.MissionID),
					zap.String("status", m.Status),
					zap.Int64("total_cost", m.TotalCost),
				)
			}
			return nil
		})
	},
}

func runIngest(run func(ctx context.Context, s *services) error) error {
	ctx := context.Background()
	s, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	return run(ctx, s)
}

func init() {
	ingestCmd.AddCommand(ingestLedgerCmd)
	ingestCmd.AddCommand(ingestMissionCmd)
	RootCmd.AddCommand(ingestCmd)
}
