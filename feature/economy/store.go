package economy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clan-ledger/feature/economy/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no economy record exists for a username.
	ErrNotFound = errors.New("economy record not found")
	// ErrEmptyUsername is returned for blank usernames.
	ErrEmptyUsername = errors.New("empty username")

	// errDuplicate rolls back a transaction whose idempotency row already existed.
	errDuplicate = errors.New("duplicate")
)

// Key returns the record key for a username.
func Key(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Delta is an additive change to the two currencies.
type Delta struct {
	Gold int64 `json:"gold"`
	Gems int64 `json:"gems"`
}

// IsZero reports whether the delta changes nothing.
func (d Delta) IsZero() bool {
	return d.Gold == 0 && d.Gems == 0
}

// Merge outcomes.
const (
	MergeMerged   = "merged"
	MergeNoSource = "no_source"
	MergeSameKey  = "same_key"
)

// MergeResult describes the outcome of Merge.
type MergeResult struct {
	Status string         `json:"status"`
	From   string         `json:"from"`
	To     string         `json:"to"`
	Moved  *models.Record `json:"moved,omitempty"`
	Record *models.Record `json:"record,omitempty"`
	Gained []string       `json:"achievements_gained,omitempty"`
}

// Store persists economy records, idempotency markers and reward history.
// Every counter change is an SQL-side increment; nothing is read, modified and written back.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DB exposes the connection for read-only reporting queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the economy tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate economy tables: %w", err)
	}
	return nil
}

// Ensure creates an empty record for username when none exists.
func (s *Store) Ensure(ctx context.Context, username string) error {
	return ensure(s.db.WithContext(ctx), username)
}

func ensure(tx *gorm.DB, username string) error {
	key := Key(username)
	if key == "" {
		return ErrEmptyUsername
	}
	rec := models.Record{UsernameKey: key, Username: strings.TrimSpace(username)}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to ensure economy record %s: %w", key, err)
	}
	return nil
}

func increment(tx *gorm.DB, username string, cols map[string]int64) error {
	if err := ensure(tx, username); err != nil {
		return err
	}
	updates := make(map[string]any, len(cols))
	for col, delta := range cols {
		if delta != 0 {
			updates[col] = gorm.Expr(col+" + ?", delta)
		}
	}
	if len(updates) == 0 {
		return nil
	}
	err := tx.Model(&models.Record{}).Where("username_key = ?", Key(username)).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to increment economy record %s: %w", Key(username), err)
	}
	return nil
}

// Get returns the record for username.
func (s *Store) Get(ctx context.Context, username string) (*models.Record, error) {
	return get(s.db.WithContext(ctx), username)
}

func get(tx *gorm.DB, username string) (*models.Record, error) {
	var rec models.Record
	err := tx.Where("username_key = ?", Key(username)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load economy record %s: %w", Key(username), err)
	}
	return &rec, nil
}

// List returns every record ordered by username.
func (s *Store) List(ctx context.Context) ([]models.Record, error) {
	var recs []models.Record
	if err := s.db.WithContext(ctx).Order("username_key").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list economy records: %w", err)
	}
	return recs, nil
}

// Keys returns every record key.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&models.Record{}).Order("username_key").Pluck("username_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list economy keys: %w", err)
	}
	return keys, nil
}

// Adjust applies an additive manual correction and returns the updated record.
func (s *Store) Adjust(ctx context.Context, username string, d Delta) (*models.Record, error) {
	var out *models.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := increment(tx, username, map[string]int64{"gold": d.Gold, "gems": d.Gems}); err != nil {
			return err
		}
		rec, err := get(tx, username)
		out = rec
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HasLedgerEvent reports whether a donation source id was already processed.
func (s *Store) HasLedgerEvent(ctx context.Context, sourceID string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.LedgerEvent{}).Where("source_id = ?", sourceID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check ledger marker %s: %w", sourceID, err)
	}
	return n > 0, nil
}

// HasMissionEvent reports whether a mission id was already processed.
func (s *Store) HasMissionEvent(ctx context.Context, missionID string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.MissionEvent{}).Where("mission_id = ?", missionID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check mission marker %s: %w", missionID, err)
	}
	return n > 0, nil
}

// ApplyDonation claims the marker for ev.SourceID and, for applied events, credits the
// positive amounts, all in one transaction. applied is false when the marker already
// existed, in which case nothing changed.
func (s *Store) ApplyDonation(ctx context.Context, ev *models.LedgerEvent) (applied bool, err error) {
	if ev.ObservedAt.IsZero() {
		ev.ObservedAt = time.Now().UTC()
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ev)
		if res.Error != nil {
			return fmt.Errorf("failed to write ledger marker %s: %w", ev.SourceID, res.Error)
		}
		if res.RowsAffected == 0 {
			return errDuplicate
		}
		if ev.Status != models.StatusApplied {
			return nil
		}
		cols := map[string]int64{}
		if ev.Gold > 0 {
			cols["gold"] = ev.Gold
			cols["gold_donated"] = ev.Gold
		}
		if ev.Gems > 0 {
			cols["gems"] = ev.Gems
			cols["gems_donated"] = ev.Gems
		}
		return increment(tx, ev.Username, cols)
	})
	if errors.Is(err, errDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ApplyMission claims the marker for ev.MissionID, stores the participant attribution
// and debits every participant's cost in ev.Currency, all in one transaction.
// applied is false when the mission was already processed.
func (s *Store) ApplyMission(ctx context.Context, ev *models.MissionEvent, participants []models.MissionParticipant) (applied bool, err error) {
	col := models.CurrencyGold
	if ev.Currency == models.CurrencyGems {
		col = models.CurrencyGems
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(ev)
		if res.Error != nil {
			return fmt.Errorf("failed to write mission marker %s: %w", ev.MissionID, res.Error)
		}
		if res.RowsAffected == 0 {
			return errDuplicate
		}
		for i := range participants {
			participants[i].MissionID = ev.MissionID
		}
		if len(participants) > 0 {
			if err := tx.Create(&participants).Error; err != nil {
				return fmt.Errorf("failed to write mission participants %s: %w", ev.MissionID, err)
			}
		}
		if ev.Status != models.StatusApplied {
			return nil
		}
		for _, p := range participants {
			if p.Cost == 0 {
				continue
			}
			if err := increment(tx, p.Username, map[string]int64{col: -p.Cost}); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ev.Participants = participants
	return true, nil
}

// AddPoints increments the point counter and appends ev to the reward history with the
// running total after the increment. When ev carries an idempotency key that was already
// recorded, nothing changes and applied is false.
func (s *Store) AddPoints(ctx context.Context, ev *models.RewardEvent) (applied bool, err error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	ev.UsernameKey = Key(ev.Username)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ev.IdempotencyKey != nil {
			var n int64
			if err := tx.Model(&models.RewardEvent{}).Where("idempotency_key = ?", *ev.IdempotencyKey).Count(&n).Error; err != nil {
				return fmt.Errorf("failed to check reward key: %w", err)
			}
			if n > 0 {
				return errDuplicate
			}
		}
		if err := increment(tx, ev.Username, map[string]int64{"reward_points": ev.Points}); err != nil {
			return err
		}
		var total int64
		if err := tx.Model(&models.Record{}).Where("username_key = ?", ev.UsernameKey).Pluck("reward_points", &total).Error; err != nil {
			return fmt.Errorf("failed to read point total %s: %w", ev.UsernameKey, err)
		}
		ev.RunningTotal = total
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ev)
		if res.Error != nil {
			return fmt.Errorf("failed to append reward history: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent award with the same key won; undo our increment.
			return errDuplicate
		}
		return nil
	})
	if errors.Is(err, errDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddAchievement records code for username. added is false when it was already held.
func (s *Store) AddAchievement(ctx context.Context, username, code string) (added bool, err error) {
	row := models.Achievement{UsernameKey: Key(username), Code: code, UnlockedAt: time.Now().UTC()}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("failed to add achievement %s for %s: %w", code, row.UsernameKey, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Achievements returns the codes held by username in unlock order.
func (s *Store) Achievements(ctx context.Context, username string) ([]string, error) {
	var codes []string
	err := s.db.WithContext(ctx).Model(&models.Achievement{}).
		Where("username_key = ?", Key(username)).
		Order("unlocked_at, id").
		Pluck("code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements for %s: %w", Key(username), err)
	}
	return codes, nil
}

// Merge folds the record of from into the record of to: currencies, donation totals and
// points are added, achievements unioned, reward history re-keyed, and the from record
// deleted. A case-only rename just updates the display name.
func (s *Store) Merge(ctx context.Context, from, to string) (MergeResult, error) {
	result := MergeResult{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}
	fromKey, toKey := Key(from), Key(to)
	if fromKey == "" || toKey == "" {
		return result, ErrEmptyUsername
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if fromKey == toKey {
			result.Status = MergeSameKey
			res := tx.Model(&models.Record{}).Where("username_key = ?", toKey).Update("username", result.To)
			if res.Error != nil {
				return fmt.Errorf("failed to rename economy record %s: %w", toKey, res.Error)
			}
			rec, err := get(tx, toKey)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			result.Record = rec
			return nil
		}

		source, err := get(tx, fromKey)
		if errors.Is(err, ErrNotFound) {
			result.Status = MergeNoSource
			return nil
		}
		if err != nil {
			return err
		}
		result.Moved = source

		err = increment(tx, result.To, map[string]int64{
			"gold":          source.Gold,
			"gems":          source.Gems,
			"gold_donated":  source.GoldDonated,
			"gems_donated":  source.GemsDonated,
			"reward_points": source.RewardPoints,
		})
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Record{}).Where("username_key = ?", toKey).Update("username", result.To).Error; err != nil {
			return fmt.Errorf("failed to rename economy record %s: %w", toKey, err)
		}

		var held []models.Achievement
		if err := tx.Where("username_key = ?", fromKey).Order("unlocked_at, id").Find(&held).Error; err != nil {
			return fmt.Errorf("failed to load achievements of %s: %w", fromKey, err)
		}
		for _, a := range held {
			row := models.Achievement{UsernameKey: toKey, Code: a.Code, UnlockedAt: a.UnlockedAt}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to merge achievement %s: %w", a.Code, res.Error)
			}
			if res.RowsAffected > 0 {
				result.Gained = append(result.Gained, a.Code)
			}
		}
		if err := tx.Where("username_key = ?", fromKey).Delete(&models.Achievement{}).Error; err != nil {
			return fmt.Errorf("failed to delete achievements of %s: %w", fromKey, err)
		}

		if err := tx.Model(&models.RewardEvent{}).Where("username_key = ?", fromKey).Update("username_key", toKey).Error; err != nil {
			return fmt.Errorf("failed to re-key reward history of %s: %w", fromKey, err)
		}

		if err := tx.Where("username_key = ?", fromKey).Delete(&models.Record{}).Error; err != nil {
			return fmt.Errorf("failed to delete economy record %s: %w", fromKey, err)
		}

		rec, err := get(tx, toKey)
		if err != nil {
			return err
		}
		result.Record = rec
		result.Status = MergeMerged
		return nil
	})
	if err != nil {
		return result, err
	}

	if result.Status == MergeMerged {
		s.logger.Info("Economy records merged",
			zap.String("from", result.From),
			zap.String("to", result.To),
			zap.Int64("gold", result.Record.Gold),
			zap.Int64("gems", result.Record.Gems),
			zap.Int64("reward_points", result.Record.RewardPoints),
		)
	}
	return result, nil
}
