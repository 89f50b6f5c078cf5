package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"clan-ledger/core/loader"
	"clan-ledger/core/lock"
	"clan-ledger/core/logger"
	"clan-ledger/core/metrics"
	"clan-ledger/core/middleware"
	"clan-ledger/core/reconcile"
	"clan-ledger/core/scheduler"
	"clan-ledger/feature/economy"
	"clan-ledger/feature/identity"
	"clan-ledger/feature/integrity"
	"clan-ledger/feature/ledger"
	"clan-ledger/feature/rewards"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "clan-ledger/docs/swagger"
)

// @title Clan Ledger API
// @version 1.0
// @description Identity resolution, ledger ingestion and reward points for a game clan.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the clan ledger server",
	Long:  `Starts the HTTP server, the polling scheduler and initializes all features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer s.close()
		zap.ReplaceGlobals(s.logger)
		logg := s.logger

		locker, err := lock.New(ctx, s.cfg.Lock)
		if err != nil {
			return err
		}
		sched := scheduler.New(locker, s.cfg.Scheduler.RunTimeout, logg.Named("scheduler"))
		sched.Add(scheduler.Job{Name: ledger.JobDonations, Interval: s.cfg.Scheduler.Ledger, Run: s.jobs.Donations})
		sched.Add(scheduler.Job{Name: ledger.JobMission, Interval: s.cfg.Scheduler.Mission, Run: s.jobs.Mission})
		sched.Add(scheduler.Job{Name: "identity-refresh", Interval: s.cfg.Scheduler.ProfileSync(), Run: func(ctx context.Context) error {
			_, err := s.refresher.RefreshLinked(ctx)
			return err
		}})
		sched.Add(scheduler.Job{Name: ledger.JobPrepopulate, Interval: s.cfg.Scheduler.Prepopulate, Run: s.jobs.Prepopulate})

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(economy.NewFeature(s.economy))
		mgr.Register(identity.NewFeature(identity.NewHandler(s.resolver, s.linker, s.verifier, logg.Named("identity"))))
		mgr.Register(rewards.NewFeature(rewards.NewHandler(s.rewards, s.rewardsRepo, s.resolver, s.cfg.Rewards, logg.Named("rewards"))))
		mgr.Register(ledger.NewFeature(ledger.NewHandler(s.jobs, s.missions, sched, logg.Named("ledger"))))
		mgr.Register(integrity.NewFeature(integrity.NewService(
			s.db,
			schemaModels(),
			reconcile.NewEngine(s.profiles, s.economy, logg.Named("reconcile")),
			integrity.Options{Client: s.storage, Bucket: s.cfg.Storage.Bucket, Region: s.cfg.Storage.Region},
			logg.Named("integrity"),
		)))

		// RayID first so every log line of a request carries it.
		app.Use(middleware.RayID())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", metrics.Handler())

		app.Use(middleware.Auth(s.cfg.Server.ApiKey))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		if s.cfg.Scheduler.Enabled {
			sched.Start(ctx)
		} else {
			logg.Info("Scheduler disabled")
		}

		go func() {
			logg.Info("Starting server", zap.String("port", s.cfg.Server.Port))
			if err := app.Listen(s.cfg.Server.Address()); err != nil {
				logg.Error("Server stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down server...")
		if s.cfg.Scheduler.Enabled {
			sched.Stop()
		}
		return app.ShutdownWithTimeout(s.cfg.Server.ShutdownTimeout())
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
