package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clan-ledger/feature/identity/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NormalizeName trims and lowercases a name for index lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Store persists profiles with their name and verification history.
type Store struct {
	db *gorm.DB
}

// NewStore creates a profile store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the identity tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate identity tables: %w", err)
	}
	return nil
}

// Transaction runs fn with a store bound to a single transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) first(ctx context.Context, query string, args ...any) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Where(query, args...).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// ByID returns the profile with the given id.
func (s *Store) ByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.first(ctx, "id = ?", id)
}

// ByChatID returns the profile bound to a chat account.
func (s *Store) ByChatID(ctx context.Context, chatID int64) (*models.Profile, error) {
	return s.first(ctx, "chat_id = ?", chatID)
}

// ByCurrentUsername returns the profile whose current game username matches, ignoring case.
func (s *Store) ByCurrentUsername(ctx context.Context, username string) (*models.Profile, error) {
	key := NormalizeName(username)
	if key == "" {
		return nil, ErrProfileNotFound
	}
	return s.first(ctx, "game_username_key = ?", key)
}

// ByAccountID returns the profile bound to a game account id.
func (s *Store) ByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	if accountID == "" {
		return nil, ErrProfileNotFound
	}
	return s.first(ctx, "game_account_id = ?", accountID)
}

// ByHistoricalUsername returns the profile that held username as a game name at any time.
// When several did, the one that took it most recently wins.
func (s *Store) ByHistoricalUsername(ctx context.Context, username string) (*models.Profile, error) {
	key := NormalizeName(username)
	if key == "" {
		return nil, ErrProfileNotFound
	}
	var entry models.NameHistory
	err := s.db.WithContext(ctx).
		Where("kind = ? AND name_key = ?", models.NameKindGame, key).
		Order("became_current_at DESC, id DESC").
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search name history: %w", err)
	}
	return s.ByID(ctx, entry.ProfileID)
}

// Create inserts a new profile.
func (s *Store) Create(ctx context.Context, p *models.Profile) error {
	if p.VerificationStatus == "" {
		p.VerificationStatus = models.VerificationUnverified
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Save writes every column of an existing profile.
func (s *Store) Save(ctx context.Context, p *models.Profile) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return fmt.Errorf("failed to save profile %d: %w", p.ID, err)
	}
	return nil
}

// AppendName records name in the profile's history of the given kind.
func (s *Store) AppendName(ctx context.Context, profileID uint, kind, name string, at time.Time) error {
	entry := models.NameHistory{
		ProfileID:       profileID,
		Kind:            kind,
		Name:            strings.TrimSpace(name),
		NameKey:         NormalizeName(name),
		BecameCurrentAt: at,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append %s name history: %w", kind, err)
	}
	return nil
}

// HasName reports whether the profile's history already contains name (case-insensitive).
func (s *Store) HasName(ctx context.Context, profileID uint, kind, name string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.NameHistory{}).
		Where("profile_id = ? AND kind = ? AND name_key = ?", profileID, kind, NormalizeName(name)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check name history: %w", err)
	}
	return n > 0, nil
}

// AppendVerification records a successful verification.
func (s *Store) AppendVerification(ctx context.Context, ev *models.VerificationEvent) error {
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("failed to append verification: %w", err)
	}
	return nil
}

// Load returns a profile with its history preloaded, oldest first.
func (s *Store) Load(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).
		Preload("Names", func(db *gorm.DB) *gorm.DB { return db.Order("became_current_at, id") }).
		Preload("Verifications", func(db *gorm.DB) *gorm.DB { return db.Order("verified_at, id") }).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %d: %w", id, err)
	}
	return &p, nil
}

// ListLinked returns profiles bound to both a chat account and a game account id.
func (s *Store) ListLinked(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := s.db.WithContext(ctx).
		Where("chat_id IS NOT NULL AND game_account_id IS NOT NULL").
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list linked profiles: %w", err)
	}
	return out, nil
}

// AliasesOf returns every profile whose game history holds a name other than its current one,
// mapping each stale alias key to the profile.
func (s *Store) AliasesOf(ctx context.Context) (map[string]models.Profile, error) {
	type row struct {
		NameKey   string
		ProfileID uint
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("profile_name_history AS h").
		Select("h.name_key, h.profile_id").
		Joins("JOIN profiles p ON p.id = h.profile_id").
		Where("h.kind = ? AND (p.game_username_key IS NULL OR h.name_key <> p.game_username_key)", models.NameKindGame).
		Order("h.became_current_at, h.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}

	out := make(map[string]models.Profile, len(rows))
	for _, r := range rows {
		p, err := s.ByID(ctx, r.ProfileID)
		if err != nil {
			return nil, err
		}
		if p.GameUsername == "" {
			continue
		}
		// Later holders overwrite earlier ones, matching ByHistoricalUsername.
		out[r.NameKey] = *p
	}
	return out, nil
}
