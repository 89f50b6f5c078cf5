package cmd

import (
	"context"
	"fmt"

	"clan-ledger/core/config"
	"clan-ledger/core/database"
	"clan-ledger/core/gameapi"
	"clan-ledger/core/logger"
	"clan-ledger/core/retry"
	"clan-ledger/core/storage"
	"clan-ledger/feature/economy"
	"clan-ledger/feature/identity"
	"clan-ledger/feature/ledger"
	"clan-ledger/feature/rewards"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// services is the object graph shared by every command.
type services struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB

	game      *gameapi.Client
	policy    *retry.Policy
	profiles  *identity.Store
	economy   *economy.Store
	resolver  *identity.Resolver
	linker    *identity.Linker
	verifier  *identity.Verifier
	refresher *identity.Refresher

	rewardsRepo *rewards.Repository
	rewards     *rewards.Engine

	// storage is nil when the feed archive is disabled.
	storage storage.Client

	donations *ledger.Processor
	missions  *ledger.MissionProcessor
	jobs      *ledger.Jobs
}

// bootstrap loads configuration, connects the database, migrates the schema and builds the
// services. The caller owns logger.Sync.
func bootstrap(ctx context.Context) (*services, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logg = logg.With(zap.String("clan", cfg.Game.ClanID))
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	s := &services{cfg: cfg, logger: logg, db: db}
	s.profiles = identity.NewStore(db)
	s.economy = economy.NewStore(db, logg.Named("economy"))
	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.game = gameapi.New(cfg.Game, logg.Named("gameapi"))
	s.policy = retry.New(cfg.Retry, logg.Named("retry"))

	s.resolver = identity.NewResolver(s.profiles, logg.Named("identity"))
	s.linker = identity.NewLinker(s.profiles, s.economy, logg.Named("identity"))
	s.verifier = identity.NewVerifier(s.profiles, s.linker, s.game, identity.DefaultCodeTTL, logg.Named("identity"))
	s.refresher = identity.NewRefresher(s.profiles, s.linker, s.game, s.policy, logg.Named("identity"))

	s.rewardsRepo = rewards.NewRepository(s.economy, cfg.Rewards.Location())
	s.rewards = rewards.NewEngine(s.economy, s.rewardsRepo, logg.Named("rewards"))

	archive, err := s.archive(ctx)
	if err != nil {
		return nil, err
	}
	s.donations = ledger.NewProcessor(s.economy, s.resolver, s.rewards, cfg.Ledger, logg.Named("ledger"))
	s.missions = ledger.NewMissionProcessor(s.economy, s.resolver, s.rewards, cfg.Ledger, logg.Named("ledger"))
	s.jobs = ledger.NewJobs(s.game, s.donations, s.missions, s.economy, archive, s.policy, logg.Named("ledger"))
	return s, nil
}

func (s *services) migrate() error {
	if err := s.profiles.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate profiles: %w", err)
	}
	if err := s.economy.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate economy: %w", err)
	}
	return nil
}

// archive builds the feed archive. Without storage it is a no-op archive.
func (s *services) archive(ctx context.Context) (*ledger.FeedArchive, error) {
	if !s.cfg.Storage.Enabled {
		return ledger.NewFeedArchive(nil, "", s.logger), nil
	}
	client, err := storage.NewClient(s.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, s.cfg.Storage.Bucket, s.cfg.Storage.Region); err != nil {
		return nil, err
	}
	s.storage = client
	s.logger.Info("Feed archive enabled", zap.String("bucket", s.cfg.Storage.Bucket))
	return ledger.NewFeedArchive(client, s.cfg.Storage.Bucket, s.logger.Named("archive")), nil
}

func (s *services) close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = s.logger.Sync()
}
