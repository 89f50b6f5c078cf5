package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"clan-ledger/feature/economy"
	"clan-ledger/feature/identity"
	idmodels "clan-ledger/feature/identity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stores struct {
	profiles *identity.Store
	economy  *economy.Store
	linker   *identity.Linker
}

func setup(t *testing.T) *stores {
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

	profiles := identity.NewStore(db)
	require.NoError(t, profiles.Migrate())
	eco := economy.NewStore(db, zap.NewNop())
	require.NoError(t, eco.Migrate())
	return &stores{profiles: profiles, economy: eco, linker: identity.NewLinker(profiles, eco, zap.NewNop())}
}

func (s *stores) link(t *testing.T, chatID int64, username string) {
	t.Helper()
	res, err := s.linker.Link(context.Background(), identity.LinkRequest{ChatID: chatID, GameUsername: username})
	require.NoError(t, err)
	require.False(t, res.Conflict, res.Reason)
}

func TestEngine_RepairsStaleAliasRecords(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	s.link(t, 1, "Old")
	s.link(t, 1, "New")
	// A donation attributed to the old name after the rename merge.
	_, err := s.economy.Adjust(ctx, "Old", economy.Delta{Gold: 100})
	require.NoError(t, err)

	engine := NewEngine(s.profiles, s.economy, zap.NewNop())
	plan, err := engine.Plan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Summary.Records)
	assert.Equal(t, 1, plan.Summary.Aliases)
	assert.Equal(t, 1, plan.Summary.MergeActions)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, Action{Type: ActionMerge, From: "old", To: "New", Reason: plan.Actions[0].Reason}, plan.Actions[0])

	executed, err := engine.Apply(ctx, plan, Options{DryRun: true, Confirmed: true})
	require.NoError(t, err)
	assert.Zero(t, executed)
	executed, err = engine.Apply(ctx, plan, Options{})
	require.NoError(t, err)
	assert.Zero(t, executed)

	executed, err = engine.Apply(ctx, plan, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, executed)

	rec, err := s.economy.Get(ctx, "New")
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.Gold)
	_, err = s.economy.Get(ctx, "Old")
	assert.ErrorIs(t, err, economy.ErrNotFound)

	plan, err = engine.Plan(ctx)
	require.NoError(t, err)
	assert.Empty(t, plan.Actions)
}

func TestEngine_SkipsContestedAliases(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	s.link(t, 1, "Gone")
	s.link(t, 1, "Other")
	s.link(t, 2, "Gone")

	plan, _, err := NewEngine(s.profiles, s.economy, zap.NewNop()).ReconcileAndApply(ctx, Options{Confirmed: true})
	require.NoError(t, err)
	require.Len(t, plan.Results, 1)
	assert.Equal(t, StatusContested, plan.Results[0].Status)
	assert.Equal(t, "gone", plan.Results[0].Key)
	assert.Equal(t, 1, plan.Summary.Contested)
	assert.Empty(t, plan.Actions)

	_, err = s.economy.Get(ctx, "Gone")
	assert.NoError(t, err)
}

type aliasesMock struct {
	mock.Mock
}

func (m *aliasesMock) AliasesOf(ctx context.Context) (map[string]idmodels.Profile, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(map[string]idmodels.Profile)
	return out, args.Error(1)
}

func (m *aliasesMock) ByCurrentUsername(ctx context.Context, username string) (*idmodels.Profile, error) {
	args := m.Called(ctx, username)
	out, _ := args.Get(0).(*idmodels.Profile)
	return out, args.Error(1)
}

type ledgerMock struct {
	mock.Mock
}

func (m *ledgerMock) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *ledgerMock) Merge(ctx context.Context, from, to string) (economy.MergeResult, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(economy.MergeResult), args.Error(1)
}

func TestEngine_LoadFailure(t *testing.T) {
	aliases := new(aliasesMock)
	ledger := new(ledgerMock)
	aliases.On("AliasesOf", mock.Anything).Return(map[string]idmodels.Profile{}, nil)
	ledger.On("Keys", mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewEngine(aliases, ledger, zap.NewNop()).Plan(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestEngine_ApplyStopsOnError(t *testing.T) {
	aliases := new(aliasesMock)
	ledger := new(ledgerMock)
	aliases.On("AliasesOf", mock.Anything).Return(map[string]idmodels.Profile{
		"a": {ID: 1, GameUsername: "A2"},
		"b": {ID: 2, GameUsername: "B2"},
	}, nil)
	aliases.On("ByCurrentUsername", mock.Anything, mock.Anything).Return(nil, identity.ErrProfileNotFound)
	ledger.On("Keys", mock.Anything).Return([]string{"a", "b", "c"}, nil)
	ledger.On("Merge", mock.Anything, "a", "A2").Return(economy.MergeResult{Status: economy.MergeMerged}, nil)
	ledger.On("Merge", mock.Anything, "b", "B2").Return(economy.MergeResult{}, errors.New("locked"))

	engine := NewEngine(aliases, ledger, zap.NewNop())
	plan, executed, err := engine.ReconcileAndApply(context.Background(), Options{Confirmed: true})
	require.Error(t, err)
	assert.Equal(t, 1, executed)
	assert.Equal(t, 2, plan.Summary.Stale)
	assert.Equal(t, 3, plan.Summary.Records)
	ledger.AssertExpectations(t)
}

func TestEngine_HolderLookupFailure(t *testing.T) {
	aliases := new(aliasesMock)
	ledger := new(ledgerMock)
	aliases.On("AliasesOf", mock.Anything).Return(map[string]idmodels.Profile{"a": {ID: 1, GameUsername: "A2"}}, nil)
	aliases.On("ByCurrentUsername", mock.Anything, "a").Return(nil, errors.New("timeout"))
	ledger.On("Keys", mock.Anything).Return([]string{"a"}, nil)

	_, err := NewEngine(aliases, ledger, zap.NewNop()).Plan(context.Background())
	assert.Error(t, err)
}
