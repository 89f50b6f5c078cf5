package ledger

import (
	"context"
	"errors"
	"testing"

	"clan-ledger/feature/economy/models"
	"clan-ledger/feature/rewards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProcessor_AppliesDonationOnce(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.processor()
	batch := []RawRecord{donation("r1", "Foo", 2000, 0)}

	summary := p.Ingest(ctx, batch)
	assert.Equal(t, 1, summary.Seen)
	assert.Equal(t, 1, summary.Applied)
	assert.Zero(t, summary.Failed)

	rec := f.record(t, "foo")
	assert.Equal(t, "Foo", rec.Username)
	assert.Equal(t, int64(2000), rec.Gold)
	assert.Equal(t, int64(2000), rec.GoldDonated)
	assert.Zero(t, rec.Gems)
	assert.Equal(t, int64(1), f.count(t, &models.RewardEvent{}, "point_type = ?", rewards.DonationGold))

	seen, err := f.economy.HasLedgerEvent(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, seen)

	again := p.Ingest(ctx, batch)
	assert.Equal(t, 1, again.Duplicate)
	assert.Zero(t, again.Applied)

	rec = f.record(t, "foo")
	assert.Equal(t, int64(2000), rec.Gold)
	assert.Equal(t, int64(1), f.count(t, &models.RewardEvent{}, "point_type = ?", rewards.DonationGold))
}

func TestProcessor_GoldAndGems(t *testing.T) {
	f := setup(t)
	summary := f.processor().Ingest(context.Background(), []RawRecord{donation("r1", "Foo", 1000, 30)})
	require.Equal(t, 1, summary.Applied)

	rec := f.record(t, "Foo")
	assert.Equal(t, int64(1000), rec.Gold)
	assert.Equal(t, int64(30), rec.Gems)
	assert.Equal(t, int64(30), rec.GemsDonated)
	assert.Equal(t, int64(1), f.count(t, &models.RewardEvent{}, "point_type = ?", rewards.DonationGem))
}

func TestProcessor_SkipsOtherRecordTypes(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	rec := donation("q1", "Foo", 500, 0)
	rec.Type = "QUEST_SPEND"

	summary := f.processor().Ingest(ctx, []RawRecord{rec})
	assert.Equal(t, 1, summary.Skipped)
	seen, err := f.economy.HasLedgerEvent(ctx, "q1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestProcessor_DonationTypeIsCaseInsensitive(t *testing.T) {
	f := setup(t)
	rec := donation("r1", "Foo", 100, 0)
	rec.Type = "donate"
	assert.Equal(t, 1, f.processor().Ingest(context.Background(), []RawRecord{rec}).Applied)
}

func TestProcessor_UnresolvedIsMarked(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.processor()

	summary := p.Ingest(ctx, []RawRecord{donation("r2", "   ", 700, 0)})
	assert.Equal(t, 1, summary.Unresolved)
	assert.Equal(t, int64(1), f.count(t, &models.LedgerEvent{}, "source_id = ? AND status = ?", "r2", models.StatusUnresolved))
	assert.Zero(t, f.count(t, &models.Record{}, "1 = 1"))

	again := p.Ingest(ctx, []RawRecord{donation("r2", "   ", 700, 0)})
	assert.Equal(t, 1, again.Duplicate)
}

func TestProcessor_AttributesThroughAlias(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.link(t, 1, "OldName")
	f.link(t, 1, "NewName")

	summary := f.processor().Ingest(ctx, []RawRecord{donation("r3", "oldname", 400, 0)})
	assert.Equal(t, 1, summary.Applied)
	assert.Equal(t, 1, summary.AliasResolved)

	assert.Equal(t, int64(400), f.record(t, "NewName").Gold)
	assert.Equal(t, int64(1), f.count(t, &models.LedgerEvent{}, "source_id = ? AND match_method = ? AND original_username = ?", "r3", models.MatchHistory, "oldname"))
}

func TestProcessor_ResolverFailureIsRetried(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	broken := NewProcessor(f.economy, failingResolver{err: errors.New("db gone")}, nil, f.cfg, zap.NewNop())

	summary := broken.Ingest(ctx, []RawRecord{donation("r4", "Foo", 100, 0)})
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "r4", summary.Errors[0].ID)

	seen, err := f.economy.HasLedgerEvent(ctx, "r4")
	require.NoError(t, err)
	assert.False(t, seen)

	assert.Equal(t, 1, f.processor().Ingest(ctx, []RawRecord{donation("r4", "Foo", 100, 0)}).Applied)
}

func TestProcessor_MissingIDFails(t *testing.T) {
	f := setup(t)
	summary := f.processor().Ingest(context.Background(), []RawRecord{donation(" ", "Foo", 100, 0), donation("r5", "Foo", 100, 0)})
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Applied)
	assert.Equal(t, ErrMissingSourceID.Error(), summary.Errors[0].Error)
}

func TestProcessor_NegativeAmountsAreIgnored(t *testing.T) {
	f := setup(t)
	summary := f.processor().Ingest(context.Background(), []RawRecord{donation("r6", "Foo", -300, 20)})
	require.Equal(t, 1, summary.Applied)
	rec := f.record(t, "Foo")
	assert.Zero(t, rec.Gold)
	assert.Equal(t, int64(20), rec.Gems)
}

func TestProcessor_RewardFailureKeepsDonation(t *testing.T) {
	f := setup(t)
	p := NewProcessor(f.economy, f.resolver, failingAwarder{}, f.cfg, zap.NewNop())

	summary := p.Ingest(context.Background(), []RawRecord{donation("r7", "Foo", 100, 5)})
	assert.Equal(t, 1, summary.Applied)
	assert.Equal(t, 2, summary.RewardFailures)
	assert.Equal(t, int64(100), f.record(t, "Foo").Gold)
}
