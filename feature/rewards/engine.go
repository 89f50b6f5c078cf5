package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"clan-ledger/core/metrics"
	"clan-ledger/feature/economy"
	"clan-ledger/feature/economy/models"

	"go.uber.org/zap"
)

// Award outcomes.
const (
	StatusAwarded   = "awarded"
	StatusZero      = "zero"
	StatusDuplicate = "duplicate"
	StatusRejected  = "rejected"
)

// Metadata travels with an award into the reward history.
type Metadata struct {
	// IdempotencyKey makes the award apply at most once.
	IdempotencyKey string         `json:"-"`
	Source         string         `json:"source,omitempty"`
	Reference      string         `json:"reference,omitempty"`
	Note           string         `json:"note,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

func (m Metadata) encode() string {
	if m.Source == "" && m.Reference == "" && m.Note == "" && len(m.Extra) == 0 {
		return ""
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(raw)
}

// Unlocked is an achievement granted by an award.
type Unlocked struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Bonus int64  `json:"bonus"`
}

// AwardResult describes what Award did.
type AwardResult struct {
	Status    string `json:"status"`
	Username  string `json:"username"`
	PointType string `json:"point_type,omitempty"`
	Amount    int64  `json:"amount"`
	Points    int64  `json:"points"`
	// Total is the point total after the award, zero unless Status is awarded.
	Total    int64      `json:"total"`
	Unlocked []Unlocked `json:"unlocked,omitempty"`
}

// Engine turns economic events into reward points and achievements.
type Engine struct {
	store  *economy.Store
	repo   *Repository
	logger *zap.Logger
}

// NewEngine creates an engine.
func NewEngine(store *economy.Store, repo *Repository, logger *zap.Logger) *Engine {
	return &Engine{store: store, repo: repo, logger: logger}
}

// Award grants the points amount is worth under pointType to username, which must
// already be canonical. Unknown point types are rejected without effect and zero-point
// results change nothing. An award whose idempotency key was already recorded is a
// duplicate.
func (e *Engine) Award(ctx context.Context, username, pointType string, amount int64, meta Metadata) (AwardResult, error) {
	result := AwardResult{Username: strings.TrimSpace(username), Amount: amount}
	if result.Username == "" {
		return result, economy.ErrEmptyUsername
	}
	pt, ok := LookupPointType(pointType)
	if !ok {
		e.logger.Warn("Unknown point type", zap.String("point_type", pointType), zap.String("username", result.Username))
		result.Status = StatusRejected
		return result, nil
	}
	result.PointType = pt.Code
	if amount < 0 && !pt.AllowNegative {
		result.Amount = 0
	}
	result.Points = pt.Compute(result.Amount)
	if result.Points == 0 {
		result.Status = StatusZero
		return result, nil
	}

	ev := &models.RewardEvent{
		Username:  result.Username,
		EventType: models.EventPoints,
		PointType: pt.Code,
		Points:    result.Points,
		Amount:    result.Amount,
		Metadata:  meta.encode(),
	}
	if meta.IdempotencyKey != "" {
		key := meta.IdempotencyKey
		ev.IdempotencyKey = &key
	}
	applied, err := e.store.AddPoints(ctx, ev)
	if err != nil {
		return result, fmt.Errorf("failed to award %s to %s: %w", pt.Code, result.Username, err)
	}
	if !applied {
		result.Status = StatusDuplicate
		return result, nil
	}
	result.Status = StatusAwarded
	result.Total = ev.RunningTotal
	if result.Points > 0 {
		metrics.PointsAwarded.WithLabelValues(pt.Code).Add(float64(result.Points))
	}

	unlocked, err := e.CheckAchievements(ctx, result.Username)
	if err != nil {
		// The points stand; the next award re-evaluates.
		e.logger.Warn("Achievement evaluation failed", zap.String("username", result.Username), zap.Error(err))
	}
	result.Unlocked = unlocked
	if len(unlocked) > 0 {
		if rec, err := e.store.Get(ctx, result.Username); err == nil {
			result.Total = rec.RewardPoints
		}
	}
	return result, nil
}

// CheckAchievements unlocks every achievement username now qualifies for and grants its
// bonus. Held achievements are skipped. Bonuses can push the player over another
// threshold, so evaluation repeats while a pass unlocks something.
func (e *Engine) CheckAchievements(ctx context.Context, username string) ([]Unlocked, error) {
	var unlocked []Unlocked
	for {
		m, err := e.snapshot(ctx, username)
		if err != nil {
			return unlocked, err
		}
		progressed := false
		for _, a := range achievements {
			if m.Achievements[a.Code] || !a.Criteria.Evaluate(m) {
				continue
			}
			added, err := e.store.AddAchievement(ctx, username, a.Code)
			if err != nil {
				return unlocked, err
			}
			if !added {
				continue
			}
			m.Achievements[a.Code] = true
			progressed = true
			unlocked = append(unlocked, Unlocked{Code: a.Code, Name: a.Name, Bonus: a.Bonus})
			metrics.AchievementsUnlocked.WithLabelValues(a.Code).Inc()

			key := "achievement:" + economy.Key(username) + ":" + a.Code
			ev := &models.RewardEvent{
				Username:       username,
				EventType:      models.EventAchievement,
				PointType:      AchievementBonus,
				Points:         a.Bonus,
				Achievement:    a.Code,
				IdempotencyKey: &key,
			}
			if _, err := e.store.AddPoints(ctx, ev); err != nil {
				return unlocked, err
			}
			e.logger.Info("Achievement unlocked",
				zap.String("username", username),
				zap.String("code", a.Code),
				zap.Int64("bonus", a.Bonus),
			)
		}
		if !progressed {
			return unlocked, nil
		}
	}
}

func (e *Engine) snapshot(ctx context.Context, username string) (Metrics, error) {
	rec, err := e.store.Get(ctx, username)
	if err != nil {
		return Metrics{}, err
	}
	codes, err := e.store.Achievements(ctx, username)
	if err != nil {
		return Metrics{}, err
	}
	history, err := e.repo.Breakdown(ctx, username, nil)
	if err != nil {
		return Metrics{}, err
	}
	m := Metrics{
		RewardPoints: rec.RewardPoints,
		Donations: map[string]int64{
			models.CurrencyGold: rec.GoldDonated,
			models.CurrencyGems: rec.GemsDonated,
		},
		History:      history,
		Achievements: make(map[string]bool, len(codes)),
	}
	for _, c := range codes {
		m.Achievements[c] = true
	}
	return m, nil
}
