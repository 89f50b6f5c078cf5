package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clan-ledger/core/gameapi"
	"clan-ledger/core/metrics"
	"clan-ledger/feature/economy"
	"clan-ledger/feature/economy/models"
	"clan-ledger/feature/rewards"

	"go.uber.org/zap"
)

// Mission sources.
const (
	SourceAuto   = "auto"
	SourceManual = "manual"
)

var (
	// ErrMissingMissionID is returned for missions without an id.
	ErrMissingMissionID = errors.New("mission has no id")
	// ErrUnknownCurrency is returned for currencies other than gold and gems.
	ErrUnknownCurrency = errors.New("unknown mission currency")
)

// Mission is one mission to charge.
type Mission struct {
	ID            string   `json:"id"`
	Currency      string   `json:"currency"`
	Participants  []string `json:"participants"`
	Source        string   `json:"source,omitempty"`
	Outcome       string   `json:"outcome,omitempty"`
	TierStartTime string   `json:"tier_start_time,omitempty"`
}

// FromActive converts the active mission payload. Gem-purchasable quests are gem missions.
func FromActive(active *gameapi.ActiveMission) Mission {
	m := Mission{Source: SourceAuto, Currency: models.CurrencyGold, TierStartTime: active.TierStartTime}
	if active.Quest != nil {
		m.ID = active.Quest.ID
		if active.Quest.PurchasableWithGems {
			m.Currency = models.CurrencyGems
		}
	}
	for _, p := range active.Participants {
		m.Participants = append(m.Participants, p.Username)
	}
	return m
}

// MissionResult describes what Process did.
type MissionResult struct {
	MissionID          string                      `json:"mission_id"`
	Status             string                      `json:"status"`
	Currency           string                      `json:"currency"`
	CostPerParticipant int64                       `json:"cost_per_participant"`
	TotalCost          int64                       `json:"total_cost"`
	Raw                int                         `json:"raw_participants"`
	Resolved           int                         `json:"resolved_participants"`
	Unresolved         []string                    `json:"unresolved_participants,omitempty"`
	AliasResolutions   int                         `json:"alias_resolutions"`
	Linked             int                         `json:"linked_participants"`
	Participants       []models.MissionParticipant `json:"participants,omitempty"`
	RewardFailures     int                         `json:"reward_failures,omitempty"`
}

// MissionProcessor charges mission costs once per mission id.
type MissionProcessor struct {
	store    *economy.Store
	resolver Resolver
	awarder  Awarder
	cfg      Config
	logger   *zap.Logger
}

// NewMissionProcessor creates a mission processor. awarder may be nil.
func NewMissionProcessor(store *economy.Store, resolver Resolver, awarder Awarder, cfg Config, logger *zap.Logger) *MissionProcessor {
	return &MissionProcessor{store: store, resolver: resolver, awarder: awarder, cfg: cfg, logger: logger}
}

// Process resolves the participants, computes the cost from the resolved headcount and
// debits every distinct resolved participant once. A mission already processed comes back
// with status duplicate. A resolver failure aborts without a marker so the mission is
// retried; a mission with no resolvable participant is marked unresolved.
func (p *MissionProcessor) Process(ctx context.Context, m Mission) (MissionResult, error) {
	result := MissionResult{MissionID: strings.TrimSpace(m.ID), Raw: len(m.Participants)}
	if result.MissionID == "" {
		return result, ErrMissingMissionID
	}
	currency, ok := NormalizeCurrency(m.Currency)
	if !ok {
		return result, fmt.Errorf("%w: %q", ErrUnknownCurrency, m.Currency)
	}
	result.Currency = currency

	seen, err := p.store.HasMissionEvent(ctx, result.MissionID)
	if err != nil {
		return result, err
	}
	if seen {
		result.Status = OutcomeDuplicate
		metrics.RecordsProcessed.WithLabelValues(metrics.FeedMission, OutcomeDuplicate).Inc()
		return result, nil
	}

	keys := map[string]bool{}
	for _, raw := range m.Participants {
		who := p.resolver.Resolve(ctx, raw)
		if who.Err != nil {
			metrics.RecordsProcessed.WithLabelValues(metrics.FeedMission, OutcomeFailed).Inc()
			return result, fmt.Errorf("failed to resolve participant %q of mission %s: %w", raw, result.MissionID, who.Err)
		}
		if !who.OK() {
			result.Unresolved = append(result.Unresolved, raw)
			continue
		}
		if keys[who.Key()] {
			continue
		}
		keys[who.Key()] = true
		if who.AliasResolved {
			result.AliasResolutions++
		}
		if who.Profile != nil && who.Profile.ChatID != nil {
			result.Linked++
		}
		result.Participants = append(result.Participants, models.MissionParticipant{
			Username:         who.Resolved,
			UsernameKey:      who.Key(),
			OriginalUsername: who.Original,
			Match:            who.Match,
			Linked:           who.Profile != nil && who.Profile.ChatID != nil,
		})
	}
	result.Resolved = len(result.Participants)

	result.CostPerParticipant = p.cfg.MissionCost(currency, result.Resolved)
	for i := range result.Participants {
		result.Participants[i].Cost = result.CostPerParticipant
	}
	result.TotalCost = result.CostPerParticipant * int64(result.Resolved)
	result.Status = models.StatusApplied
	if result.Resolved == 0 {
		result.Status = models.StatusUnresolved
	}

	source := m.Source
	if source == "" {
		source = SourceManual
	}
	ev := &models.MissionEvent{
		MissionID:              result.MissionID,
		Status:                 result.Status,
		Currency:               currency,
		Source:                 source,
		Outcome:                m.Outcome,
		TierStartTime:          m.TierStartTime,
		CostPerParticipant:     result.CostPerParticipant,
		TotalCost:              result.TotalCost,
		RawParticipants:        result.Raw,
		ResolvedParticipants:   result.Resolved,
		UnresolvedParticipants: len(result.Unresolved),
		AliasResolutions:       result.AliasResolutions,
		LinkedParticipants:     result.Linked,
	}
	applied, err := p.store.ApplyMission(ctx, ev, result.Participants)
	if err != nil {
		metrics.RecordsProcessed.WithLabelValues(metrics.FeedMission, OutcomeFailed).Inc()
		return result, err
	}
	if !applied {
		result.Status = OutcomeDuplicate
		metrics.RecordsProcessed.WithLabelValues(metrics.FeedMission, OutcomeDuplicate).Inc()
		return result, nil
	}
	metrics.RecordsProcessed.WithLabelValues(metrics.FeedMission, result.Status).Inc()

	p.logger.Info("Mission processed",
		zap.String("mission_id", result.MissionID),
		zap.String("status", result.Status),
		zap.String("currency", currency),
		zap.Int64("cost_per_participant", result.CostPerParticipant),
		zap.Int("raw_participants", result.Raw),
		zap.Int("resolved_participants", result.Resolved),
		zap.Int("unresolved_participants", len(result.Unresolved)),
		zap.Int("alias_resolutions", result.AliasResolutions),
	)

	if p.awarder != nil {
		for _, part := range result.Participants {
			_, err := p.awarder.Award(ctx, part.Username, rewards.MissionParticipation, 0, rewards.Metadata{
				IdempotencyKey: "mission:" + result.MissionID + ":" + part.UsernameKey,
				Source:         metrics.FeedMission,
				Reference:      result.MissionID,
			})
			if err != nil {
				result.RewardFailures++
				p.logger.Error("Mission reward failed",
					zap.String("mission_id", result.MissionID),
					zap.String("username", part.Username),
					zap.Error(err),
				)
			}
		}
	}
	return result, nil
}
