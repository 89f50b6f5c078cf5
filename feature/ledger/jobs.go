package ledger

import (
	"context"
	"encoding/json"
	"sync"

	"clan-ledger/core/gameapi"
	"clan-ledger/core/metrics"
	"clan-ledger/core/retry"
	"clan-ledger/feature/economy"

	"go.uber.org/zap"
)

// Job names, also the lock names of their cycles.
const (
	JobDonations   = "ledger-donations"
	JobMission     = "ledger-mission"
	JobPrepopulate = "ledger-prepopulate"
)

// Feed is the game API surface the jobs poll.
type Feed interface {
	Ledger(ctx context.Context) ([]gameapi.LedgerRecord, error)
	ActiveMission(ctx context.Context) (*gameapi.ActiveMission, error)
	Members(ctx context.Context) ([]gameapi.Member, error)
}

// Jobs are the polling cycles of the ledger. Fetches go through the retry policy; a
// fetch that still fails aborts the cycle and the next tick tries again.
type Jobs struct {
	feed      Feed
	donations *Processor
	missions  *MissionProcessor
	store     *economy.Store
	archive   *FeedArchive
	policy    *retry.Policy
	logger    *zap.Logger

	mu          sync.Mutex
	lastBatch   *IngestSummary
	lastMission *MissionResult
}

// NewJobs wires the jobs. archive may be nil; a nil policy calls the feed once.
func NewJobs(feed Feed, donations *Processor, missions *MissionProcessor, store *economy.Store, archive *FeedArchive, policy *retry.Policy, logger *zap.Logger) *Jobs {
	if policy == nil {
		policy = retry.New(retry.Config{MaxTries: 1}, logger)
	}
	return &Jobs{
		feed:      feed,
		donations: donations,
		missions:  missions,
		store:     store,
		archive:   archive,
		policy:    policy,
		logger:    logger,
	}
}

func (j *Jobs) snapshot(ctx context.Context, feed string, payload any) {
	if _, err := j.archive.Store(ctx, feed, payload); err != nil {
		j.logger.Warn("Feed snapshot failed", zap.String("feed", feed), zap.Error(err))
	}
}

// Donations fetches the clan ledger and ingests it.
func (j *Jobs) Donations(ctx context.Context) error {
	records, err := retry.Do(ctx, j.policy, "fetch_ledger", func() ([]gameapi.LedgerRecord, error) {
		return j.feed.Ledger(ctx)
	})
	if err != nil {
		return err
	}
	raw := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		raw = append(raw, r.Raw)
	}
	j.snapshot(ctx, metrics.FeedLedger, raw)

	summary := j.donations.Ingest(ctx, FromFeed(records))
	j.mu.Lock()
	j.lastBatch = &summary
	j.mu.Unlock()
	return nil
}

// Mission fetches the active mission and charges it once.
func (j *Jobs) Mission(ctx context.Context) error {
	active, err := retry.Do(ctx, j.policy, "fetch_active_mission", func() (*gameapi.ActiveMission, error) {
		return j.feed.ActiveMission(ctx)
	})
	if err != nil {
		return err
	}
	if active == nil || active.Quest == nil {
		j.logger.Debug("No active mission")
		return nil
	}
	if len(active.Raw) > 0 {
		j.snapshot(ctx, metrics.FeedMission, active.Raw)
	}

	m := FromActive(active)
	if len(m.Participants) == 0 {
		j.logger.Info("Active mission has no participants yet", zap.String("mission_id", m.ID))
		return nil
	}
	res, err := j.missions.Process(ctx, m)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.lastMission = &res
	j.mu.Unlock()
	return nil
}

// Prepopulate makes sure every clan member has an economy record.
func (j *Jobs) Prepopulate(ctx context.Context) error {
	members, err := retry.Do(ctx, j.policy, "fetch_members", func() ([]gameapi.Member, error) {
		return j.feed.Members(ctx)
	})
	if err != nil {
		return err
	}
	created := 0
	for _, m := range members {
		if m.Username == "" {
			continue
		}
		if err := j.store.Ensure(ctx, m.Username); err != nil {
			j.logger.Warn("Prepopulation failed", zap.String("username", m.Username), zap.Error(err))
			continue
		}
		created++
	}
	j.logger.Info("Clan members prepopulated", zap.Int("members", len(members)), zap.Int("ensured", created))
	return nil
}

// Status is the outcome of the latest cycles.
type Status struct {
	LastBatch   *IngestSummary `json:"last_batch,omitempty"`
	LastMission *MissionResult `json:"last_mission,omitempty"`
}

// Status returns the latest cycle outcomes.
func (j *Jobs) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Status{LastBatch: j.lastBatch, LastMission: j.lastMission}
}
