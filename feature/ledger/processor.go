package ledger

import (
	"context"
	"errors"
	"strings"

	"clan-ledger/core/metrics"
	"clan-ledger/feature/economy"
	"clan-ledger/feature/economy/models"
	"clan-ledger/feature/identity"
	"clan-ledger/feature/rewards"

	"go.uber.org/zap"
)

// Ingest outcomes, also used as metric labels.
const (
	OutcomeApplied    = "applied"
	OutcomeDuplicate  = "duplicate"
	OutcomeSkipped    = "skipped"
	OutcomeUnresolved = "unresolved"
	OutcomeFailed     = "failed"
)

// ErrMissingSourceID is recorded for feed records without an id.
var ErrMissingSourceID = errors.New("record has no source id")

// Resolver maps a feed username to its canonical identity.
type Resolver interface {
	Resolve(ctx context.Context, raw string) identity.Identity
}

// Awarder grants reward points for attributed events.
type Awarder interface {
	Award(ctx context.Context, username, pointType string, amount int64, meta rewards.Metadata) (rewards.AwardResult, error)
}

// RecordError is a per-record failure.
type RecordError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// IngestSummary counts what one batch did.
type IngestSummary struct {
	Seen          int `json:"seen"`
	Skipped       int `json:"skipped"`
	Duplicate     int `json:"duplicate"`
	Applied       int `json:"applied"`
	Unresolved    int `json:"unresolved"`
	Failed        int `json:"failed"`
	AliasResolved int `json:"alias_resolved"`
	// RewardFailures counts applied records whose point award failed.
	RewardFailures int           `json:"reward_failures"`
	Errors         []RecordError `json:"errors,omitempty"`
}

func (s *IngestSummary) fail(id string, err error) {
	s.Failed++
	s.Errors = append(s.Errors, RecordError{ID: id, Error: err.Error()})
}

// Processor applies donation records exactly once.
type Processor struct {
	store    *economy.Store
	resolver Resolver
	awarder  Awarder
	cfg      Config
	logger   *zap.Logger
}

// NewProcessor creates a processor. awarder may be nil to skip reward points.
func NewProcessor(store *economy.Store, resolver Resolver, awarder Awarder, cfg Config, logger *zap.Logger) *Processor {
	if cfg.DonationType == "" {
		cfg.DonationType = "DONATE"
	}
	return &Processor{store: store, resolver: resolver, awarder: awarder, cfg: cfg, logger: logger}
}

// Ingest processes records independently; a failing record never aborts the batch.
// Non-donation records are skipped without a marker. Records already marked are
// duplicates. Records whose username cannot be resolved are marked unresolved and never
// retried. Resolver and storage failures leave no marker so the next cycle retries.
func (p *Processor) Ingest(ctx context.Context, records []RawRecord) IngestSummary {
	var summary IngestSummary
	for _, rec := range records {
		summary.Seen++
		outcome := p.ingestOne(ctx, rec, &summary)
		metrics.RecordsProcessed.WithLabelValues(metrics.FeedLedger, outcome).Inc()
	}
	if summary.Applied > 0 || summary.Failed > 0 || summary.Unresolved > 0 {
		p.logger.Info("Ledger batch processed",
			zap.Int("seen", summary.Seen),
			zap.Int("applied", summary.Applied),
			zap.Int("duplicate", summary.Duplicate),
			zap.Int("skipped", summary.Skipped),
			zap.Int("unresolved", summary.Unresolved),
			zap.Int("failed", summary.Failed),
			zap.Int("alias_resolved", summary.AliasResolved),
		)
	}
	return summary
}

func (p *Processor) ingestOne(ctx context.Context, rec RawRecord, summary *IngestSummary) string {
	if !strings.EqualFold(strings.TrimSpace(rec.Type), p.cfg.DonationType) {
		summary.Skipped++
		return OutcomeSkipped
	}
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		summary.fail(id, ErrMissingSourceID)
		return OutcomeFailed
	}

	seen, err := p.store.HasLedgerEvent(ctx, id)
	if err != nil {
		summary.fail(id, err)
		return OutcomeFailed
	}
	if seen {
		summary.Duplicate++
		return OutcomeDuplicate
	}

	who := p.resolver.Resolve(ctx, rec.Username)
	if who.Err != nil {
		summary.fail(id, who.Err)
		return OutcomeFailed
	}

	ev := &models.LedgerEvent{
		SourceID:         id,
		OriginalUsername: who.Original,
		Match:            who.Match,
		ObservedAt:       rec.CreatedAt,
	}
	if who.OK() {
		ev.Status = models.StatusApplied
		ev.Username = who.Resolved
		ev.UsernameKey = who.Key()
		ev.Gold = max(rec.Gold, 0)
		ev.Gems = max(rec.Gems, 0)
	} else {
		ev.Status = models.StatusUnresolved
	}

	applied, err := p.store.ApplyDonation(ctx, ev)
	if err != nil {
		summary.fail(id, err)
		return OutcomeFailed
	}
	if !applied {
		summary.Duplicate++
		return OutcomeDuplicate
	}
	if ev.Status == models.StatusUnresolved {
		p.logger.Warn("Donation without usable username", zap.String("source_id", id), zap.String("username", rec.Username))
		summary.Unresolved++
		return OutcomeUnresolved
	}

	summary.Applied++
	if who.AliasResolved {
		summary.AliasResolved++
		p.logger.Info("Donation attributed through alias",
			zap.String("source_id", id),
			zap.String("alias", who.Original),
			zap.String("username", who.Resolved),
		)
	}
	p.award(ctx, id, ev, summary)
	return OutcomeApplied
}

func (p *Processor) award(ctx context.Context, id string, ev *models.LedgerEvent, summary *IngestSummary) {
	if p.awarder == nil {
		return
	}
	for _, part := range []struct {
		currency  string
		pointType string
		amount    int64
	}{
		{models.CurrencyGold, rewards.DonationGold, ev.Gold},
		{models.CurrencyGems, rewards.DonationGem, ev.Gems},
	} {
		if part.amount <= 0 {
			continue
		}
		_, err := p.awarder.Award(ctx, ev.Username, part.pointType, part.amount, rewards.Metadata{
			IdempotencyKey: "ledger:" + id + ":" + part.currency,
			Source:         metrics.FeedLedger,
			Reference:      id,
		})
		if err != nil {
			summary.RewardFailures++
			p.logger.Error("Donation reward failed",
				zap.String("source_id", id),
				zap.String("username", ev.Username),
				zap.String("currency", part.currency),
				zap.Error(err),
			)
		}
	}
}
