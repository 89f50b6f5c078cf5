package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"clan-ledger/core/gameapi"
	"clan-ledger/core/retry"
	"clan-ledger/core/storage/mocks"
	"clan-ledger/feature/economy/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type feedMock struct {
	mock.Mock
}

func (m *feedMock) Ledger(ctx context.Context) ([]gameapi.LedgerRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]gameapi.LedgerRecord)
	return records, args.Error(1)
}

func (m *feedMock) ActiveMission(ctx context.Context) (*gameapi.ActiveMission, error) {
	args := m.Called(ctx)
	active, _ := args.Get(0).(*gameapi.ActiveMission)
	return active, args.Error(1)
}

func (m *feedMock) Members(ctx context.Context) ([]gameapi.Member, error) {
	args := m.Called(ctx)
	members, _ := args.Get(0).([]gameapi.Member)
	return members, args.Error(1)
}

func (f *fixture) jobs(feed Feed, archive *FeedArchive) *Jobs {
	policy := retry.New(retry.Config{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, MaxTries: 2}, zap.NewNop())
	return NewJobs(feed, f.processor(), f.missions(), f.economy, archive, policy, zap.NewNop())
}

func TestJobs_Donations(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	feed := new(feedMock)
	var records []gameapi.LedgerRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"r1","type":"DONATE","playerUsername":"Foo","gold":2000,"creationTime":"2024-03-01T10:00:00Z"},
		{"id":"r2","type":"QUEST","playerUsername":"Foo","gold":300}
	]`), &records))
	feed.On("Ledger", mock.Anything).Return(nil, errors.New("timeout")).Once()
	feed.On("Ledger", mock.Anything).Return(records, nil)

	store := new(mocks.Client)
	store.On("PutObject", mock.Anything, "feeds", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	j := f.jobs(feed, NewFeedArchive(store, "feeds", zap.NewNop()))
	require.NoError(t, j.Donations(ctx))

	status := j.Status()
	require.NotNil(t, status.LastBatch)
	assert.Equal(t, 2, status.LastBatch.Seen)
	assert.Equal(t, 1, status.LastBatch.Applied)
	assert.Equal(t, 1, status.LastBatch.Skipped)
	assert.Equal(t, int64(2000), f.record(t, "Foo").Gold)
	store.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestJobs_DonationsFetchFailure(t *testing.T) {
	f := setup(t)
	feed := new(feedMock)
	feed.On("Ledger", mock.Anything).Return(nil, errors.New("timeout"))

	j := f.jobs(feed, nil)
	assert.Error(t, j.Donations(context.Background()))
	assert.Nil(t, j.Status().LastBatch)
	feed.AssertNumberOfCalls(t, "Ledger", 2)
}

func TestJobs_Mission(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	feed := new(feedMock)
	feed.On("ActiveMission", mock.Anything).Return(&gameapi.ActiveMission{
		Quest:        &gameapi.Quest{ID: "q1"},
		Participants: []gameapi.Participant{{Username: "Foo"}, {Username: "Bar"}},
	}, nil)

	j := f.jobs(feed, nil)
	require.NoError(t, j.Mission(ctx))
	require.NoError(t, j.Mission(ctx))

	last := j.Status().LastMission
	require.NotNil(t, last)
	assert.Equal(t, OutcomeDuplicate, last.Status)
	assert.Equal(t, int64(-500), f.record(t, "Foo").Gold)
	assert.Equal(t, int64(-500), f.record(t, "Bar").Gold)
}

func TestJobs_NoActiveMission(t *testing.T) {
	f := setup(t)
	feed := new(feedMock)
	feed.On("ActiveMission", mock.Anything).Return(nil, nil)

	j := f.jobs(feed, nil)
	require.NoError(t, j.Mission(context.Background()))
	assert.Nil(t, j.Status().LastMission)
}

func TestJobs_Prepopulate(t *testing.T) {
	f := setup(t)
	feed := new(feedMock)
	feed.On("Members", mock.Anything).Return([]gameapi.Member{{Username: "Foo"}, {Username: ""}, {Username: "Bar"}}, nil)

	j := f.jobs(feed, nil)
	require.NoError(t, j.Prepopulate(context.Background()))
	assert.Equal(t, int64(2), f.count(t, &models.Record{}, "1 = 1"))
}
