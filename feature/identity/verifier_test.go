package identity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"clan-ledger/core/gameapi"
	"clan-ledger/core/retry"
	"clan-ledger/feature/economy"
	"clan-ledger/feature/identity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type directoryMock struct {
	mock.Mock
}

func (m *directoryMock) ClanID() string {
	return "clan-1"
}

func (m *directoryMock) PlayerByUsername(ctx context.Context, username string) (*gameapi.Player, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*gameapi.Player)
	return p, args.Error(1)
}

func (m *directoryMock) PlayerByID(ctx context.Context, id string) (*gameapi.Player, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*gameapi.Player)
	return p, args.Error(1)
}

func newVerifier(f *fixture, dir Directory) *Verifier {
	v := NewVerifier(f.store, f.linker, dir, time.Minute*30, zap.NewNop())
	v.now = f.linker.now
	return v
}

func TestVerifier_StartAndConfirm(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dir := &directoryMock{}
	v := newVerifier(f, dir)

	dir.On("PlayerByUsername", mock.Anything, "Foo").Return(&gameapi.Player{ID: "acc-1", Username: "Foo", ClanID: "clan-1"}, nil).Once()
	ch, err := v.Start(ctx, 42, "Foo")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{6}$`), ch.Code)
	assert.Equal(t, "acc-1", ch.GameAccountID)

	p, err := f.store.ByChatID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, p.VerificationStatus)

	dir.On("PlayerByID", mock.Anything, "acc-1").Return(&gameapi.Player{ID: "acc-1", Username: "Foo", PersonalMessage: "hi " + strings.ToLower(ch.Code)}, nil).Once()
	res, err := v.Confirm(ctx, 42)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, models.VerificationVerified, res.Profile.VerificationStatus)
	assert.Equal(t, "acc-1", res.Profile.GameAccountID)

	p, err = f.store.ByChatID(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, p.PendingCode)
	dir.AssertExpectations(t)
}


func TestVerifier_StartErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dir := &directoryMock{}
	v := newVerifier(f, dir)

	dir.On("PlayerByUsername", mock.Anything, "Ghost").Return(nil, retry.Permanent(gameapi.ErrNotFound)).Once()
	_, err := v.Start(ctx, 1, "Ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	dir.On("PlayerByUsername", mock.Anything, "Outsider").Return(&gameapi.Player{ID: "x", Username: "Outsider", ClanID: "other"}, nil).Once()
	_, err = v.Start(ctx, 1, "Outsider")
	assert.ErrorIs(t, err, ErrNotInClan)

	_, err = v.Start(ctx, 1, " ")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestVerifier_ConfirmErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dir := &directoryMock{}
	v := newVerifier(f, dir)

	_, err := v.Confirm(ctx, 5)
	assert.ErrorIs(t, err, ErrNoPendingVerification)

	dir.On("PlayerByUsername", mock.Anything, "Foo").Return(&gameapi.Player{ID: "acc-1", Username: "Foo", ClanID: "clan-1"}, nil)
	_, err = v.Start(ctx, 5, "Foo")
	require.NoError(t, err)

	dir.On("PlayerByID", mock.Anything, "acc-1").Return(&gameapi.Player{ID: "acc-1", Username: "Foo", PersonalMessage: "nothing here"}, nil).Once()
	_, err = v.Confirm(ctx, 5)
	assert.ErrorIs(t, err, ErrCodeMismatch)

	*f.clock = f.clock.Add(31 * time.Minute)
	_, err = v.Confirm(ctx, 5)
	assert.ErrorIs(t, err, ErrVerificationExpired)

	p, err := f.store.ByChatID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationUnverified, p.VerificationStatus)
	_, err = v.Confirm(ctx, 5)
	assert.ErrorIs(t, err, ErrNoPendingVerification)
}

func TestRefresher_AppliesRenames(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dir := &directoryMock{}

	for _, req := range []LinkRequest{
		{ChatID: 1, GameUsername: "Alpha", GameAccountID: "a"},
		{ChatID: 2, GameUsername: "Beta", GameAccountID: "b"},
		{ChatID: 3, GameUsername: "Gamma", GameAccountID: "c"},
		{ChatID: 4, GameUsername: "NoAccount"},
	} {
		_, err := f.linker.Link(ctx, req)
		require.NoError(t, err)
	}
	_, err := f.economy.Adjust(ctx, "Alpha", economy.Delta{Gold: 50})
	require.NoError(t, err)

	dir.On("PlayerByID", mock.Anything, "a").Return(&gameapi.Player{ID: "a", Username: "AlphaPrime"}, nil)
	dir.On("PlayerByID", mock.Anything, "b").Return(&gameapi.Player{ID: "b", Username: "Beta"}, nil)
	dir.On("PlayerByID", mock.Anything, "c").Return(nil, retry.Permanent(gameapi.ErrNotFound))

	policy := retry.New(retry.Config{InitialInterval: time.Millisecond, MaxTries: 2}, zap.NewNop())
	summary, err := NewRefresher(f.store, f.linker, dir, policy, zap.NewNop()).RefreshLinked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Checked)
	assert.Equal(t, 1, summary.Renamed)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 0, summary.Failed)

	id := f.resolver.Resolve(ctx, "alpha")
	assert.Equal(t, "AlphaPrime", id.Resolved)
	rec, err := f.economy.Get(ctx, "alphaprime")
	require.NoError(t, err)
	assert.Equal(t, int64(50), rec.Gold)
}

func TestRefresher_TransientFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dir := &directoryMock{}
	_, err := f.linker.Link(ctx, LinkRequest{ChatID: 1, GameUsername: "Alpha", GameAccountID: "a"})
	require.NoError(t, err)

	dir.On("PlayerByID", mock.Anything, "a").Return(nil, errors.New("503")).Twice()

	policy := retry.New(retry.Config{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, MaxTries: 2}, zap.NewNop())
	summary, err := NewRefresher(f.store, f.linker, dir, policy, zap.NewNop()).RefreshLinked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, summary.Errors, 1)
	dir.AssertExpectations(t)
}
