package rewards

import (
	"context"
	"fmt"
	"time"

	"clan-ledger/feature/economy"
	"clan-ledger/feature/economy/models"

	"gorm.io/gorm"
)

// LeaderboardEntry is one row of a leaderboard.
type LeaderboardEntry struct {
	Username     string   `json:"username"`
	PeriodPoints int64    `json:"period_points"`
	TotalPoints  int64    `json:"total_points"`
	Achievements []string `json:"achievements"`
}

// Progress summarises one player's rewards.
type Progress struct {
	Username     string               `json:"username"`
	Period       string               `json:"period"`
	TotalPoints  int64                `json:"total_points"`
	PeriodPoints *int64               `json:"period_points,omitempty"`
	Achievements []string             `json:"achievements"`
	Breakdown    Breakdown            `json:"breakdown"`
	History      []models.RewardEvent `json:"history"`
}

// Repository answers reporting queries over the reward history.
type Repository struct {
	store *economy.Store
	loc   *time.Location
	now   func() time.Time
}

// NewRepository creates a repository reporting in loc.
func NewRepository(store *economy.Store, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{store: store, loc: loc, now: time.Now}
}

func (r *Repository) history(ctx context.Context) *gorm.DB {
	return r.store.DB().WithContext(ctx).Model(&models.RewardEvent{})
}

// Breakdown aggregates username's history by point type, from since when set.
func (r *Repository) Breakdown(ctx context.Context, username string, since *time.Time) (Breakdown, error) {
	out := Breakdown{ByType: map[string]TypeStats{}}
	var rows []struct {
		PointType   string
		Points      int64
		Events      int64
		TotalAmount int64
	}
	q := r.history(ctx).
		Select("point_type, COALESCE(SUM(points), 0) AS points, COUNT(*) AS events, COALESCE(SUM(amount), 0) AS total_amount").
		Where("username_key = ?", economy.Key(username))
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if err := q.Group("point_type").Scan(&rows).Error; err != nil {
		return out, fmt.Errorf("failed to aggregate reward history of %s: %w", economy.Key(username), err)
	}
	for _, row := range rows {
		if row.PointType == "" {
			continue
		}
		out.ByType[row.PointType] = TypeStats{Points: row.Points, Events: row.Events, TotalAmount: row.TotalAmount}
		out.TotalPoints += row.Points
		out.TotalEvents += row.Events
	}
	return out, nil
}

// Leaderboard ranks players by points earned in period. The all-time board ranks by the
// stored total and skips players without points.
func (r *Repository) Leaderboard(ctx context.Context, period string, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 {
		limit = 10
	}
	start := PeriodStart(period, r.now(), r.loc)

	var entries []LeaderboardEntry
	if start == nil {
		var recs []models.Record
		err := r.store.DB().WithContext(ctx).
			Where("reward_points > 0").
			Order("reward_points DESC, username_key").
			Limit(limit).
			Find(&recs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load leaderboard: %w", err)
		}
		for _, rec := range recs {
			entries = append(entries, LeaderboardEntry{Username: rec.Username, PeriodPoints: rec.RewardPoints, TotalPoints: rec.RewardPoints})
		}
	} else {
		var rows []struct {
			UsernameKey  string
			PeriodPoints int64
		}
		err := r.history(ctx).
			Select("username_key, SUM(points) AS period_points").
			Where("created_at >= ?", *start).
			Group("username_key").
			Order("period_points DESC, MAX(created_at) ASC").
			Limit(limit).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate leaderboard: %w", err)
		}
		for _, row := range rows {
			entry := LeaderboardEntry{Username: row.UsernameKey, PeriodPoints: row.PeriodPoints}
			rec, err := r.store.Get(ctx, row.UsernameKey)
			if err == nil {
				entry.Username = rec.Username
				entry.TotalPoints = rec.RewardPoints
			}
			entries = append(entries, entry)
		}
	}

	for i := range entries {
		codes, err := r.store.Achievements(ctx, entries[i].Username)
		if err != nil {
			return nil, err
		}
		entries[i].Achievements = codes
	}
	return entries, nil
}

// Progress returns username's totals, period points, breakdown and latest history rows.
func (r *Repository) Progress(ctx context.Context, username, period string, historyLimit int) (*Progress, error) {
	rec, err := r.store.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if historyLimit < 1 {
		historyLimit = 5
	}
	p := &Progress{Username: rec.Username, Period: NormalizePeriod(period), TotalPoints: rec.RewardPoints}

	if p.Achievements, err = r.store.Achievements(ctx, username); err != nil {
		return nil, err
	}
	if p.Breakdown, err = r.Breakdown(ctx, username, nil); err != nil {
		return nil, err
	}
	if start := PeriodStart(period, r.now(), r.loc); start != nil {
		var sum int64
		err := r.history(ctx).
			Select("COALESCE(SUM(points), 0)").
			Where("username_key = ? AND created_at >= ?", rec.UsernameKey, *start).
			Scan(&sum).Error
		if err != nil {
			return nil, fmt.Errorf("failed to sum period points of %s: %w", rec.UsernameKey, err)
		}
		p.PeriodPoints = &sum
	}
	err = r.history(ctx).
		Where("username_key = ?", rec.UsernameKey).
		Order("created_at DESC, id").
		Limit(historyLimit).
		Find(&p.History).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reward history of %s: %w", rec.UsernameKey, err)
	}
	return p, nil
}
