package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"clan-ledger/feature/economy"
	"clan-ledger/feature/economy/models"
	"clan-ledger/feature/identity"
	"clan-ledger/feature/rewards"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	economy  *economy.Store
	profiles *identity.Store
	linker   *identity.Linker
	resolver *identity.Resolver
	engine   *rewards.Engine
	cfg      Config
}

func testConfig() Config {
	return Config{
		DonationType:        "DONATE",
		GoldMissionCost:     500,
		GemMissionCost:      150,
		GemMissionCostLarge: 140,
		GemMinParticipants:  5,
		GemLargeAbove:       7,
	}
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dbName := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	eco := economy.NewStore(db, zap.NewNop())
	require.NoError(t, eco.Migrate())
	profiles := identity.NewStore(db)
	require.NoError(t, profiles.Migrate())

	return &fixture{
		economy:  eco,
		profiles: profiles,
		linker:   identity.NewLinker(profiles, eco, zap.NewNop()),
		resolver: identity.NewResolver(profiles, zap.NewNop()),
		engine:   rewards.NewEngine(eco, rewards.NewRepository(eco, time.UTC), zap.NewNop()),
		cfg:      testConfig(),
	}
}

func (f *fixture) processor() *Processor {
	return NewProcessor(f.economy, f.resolver, f.engine, f.cfg, zap.NewNop())
}

func (f *fixture) missions() *MissionProcessor {
	return NewMissionProcessor(f.economy, f.resolver, f.engine, f.cfg, zap.NewNop())
}

func (f *fixture) link(t *testing.T, chatID int64, username string) {
	t.Helper()
	res, err := f.linker.Link(context.Background(), identity.LinkRequest{ChatID: chatID, GameUsername: username})
	require.NoError(t, err)
	require.False(t, res.Conflict, res.Reason)
}

func (f *fixture) record(t *testing.T, username string) *models.Record {
	t.Helper()
	rec, err := f.economy.Get(context.Background(), username)
	require.NoError(t, err)
	return rec
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.economy.DB().Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func donation(id, username string, gold, gems int64) RawRecord {
	return RawRecord{
		ID:        id,
		Type:      "DONATE",
		Username:  username,
		Gold:      gold,
		Gems:      gems,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

type failingResolver struct {
	err error
}

func (r failingResolver) Resolve(_ context.Context, raw string) identity.Identity {
	return identity.Identity{Input: raw, Original: strings.TrimSpace(raw), Match: models.MatchNone, Err: r.err}
}

type failingAwarder struct{}

func (failingAwarder) Award(context.Context, string, string, int64, rewards.Metadata) (rewards.AwardResult, error) {
	return rewards.AwardResult{}, fmt.Errorf("reward store down")
}
