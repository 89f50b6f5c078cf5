package identity

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"clan-ledger/feature/economy"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	store    *Store
	economy  *economy.Store
	linker   *Linker
	resolver *Resolver
	clock    *time.Time
}

// tick advances the fixture clock so history rows get distinct timestamps.
func (f *fixture) tick() {
	*f.clock = f.clock.Add(time.Minute)
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

	store := NewStore(db)
	require.NoError(t, store.Migrate())
	eco := economy.NewStore(db, zap.NewNop())
	require.NoError(t, eco.Migrate())

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	linker := NewLinker(store, eco, zap.NewNop())
	linker.now = func() time.Time { return clock }

	return &fixture{
		db:       db,
		store:    store,
		economy:  eco,
		linker:   linker,
		resolver: NewResolver(store, zap.NewNop()),
		clock:    &clock,
	}
}

func (f *fixture) link(t *testing.T, chatID int64, username string) LinkResult {
	t.Helper()
	f.tick()
	res, err := f.linker.Link(context.Background(), LinkRequest{ChatID: chatID, GameUsername: username})
	require.NoError(t, err)
	require.False(t, res.Conflict, "unexpected conflict: %s", res.Reason)
	return res
}

