package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	economymodels "clan-ledger/feature/economy/models"
	"clan-ledger/feature/identity/models"

	"go.uber.org/zap"
)

// LinkedProfile is the chat-side information attached to a resolved identity.
type LinkedProfile struct {
	ProfileID          uint       `json:"profile_id"`
	ChatID             *int64     `json:"chat_id,omitempty"`
	ChatUsername       string     `json:"chat_username,omitempty"`
	ChatDisplayName    string     `json:"chat_display_name,omitempty"`
	GameAccountID      string     `json:"game_account_id,omitempty"`
	VerificationStatus string     `json:"verification_status"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
}

// Identity is the outcome of resolving a raw username.
type Identity struct {
	// Input is the string as received.
	Input string `json:"input"`
	// Original is Input trimmed.
	Original string `json:"original"`
	// Resolved is the canonical username, empty when nothing usable was given.
	Resolved string `json:"resolved"`
	// Match is current, history or none.
	Match string `json:"match"`
	// AliasResolved is set when Original differs from Resolved because of a rename.
	AliasResolved bool `json:"alias_resolved"`
	// Profile is nil for game-only identities.
	Profile *LinkedProfile `json:"profile,omitempty"`
	// Err carries a storage failure; Match is none and Resolved empty when set.
	Err error `json:"-"`
}

// OK reports whether the identity can be attributed.
func (i Identity) OK() bool {
	return i.Err == nil && i.Resolved != ""
}

// Key returns the economy record key of the resolved username.
func (i Identity) Key() string {
	return NormalizeName(i.Resolved)
}

// Resolver maps human-typed usernames to canonical identities. It only reads.
type Resolver struct {
	store  *Store
	logger *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(store *Store, logger *zap.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the canonical identity for raw. It never returns an error; storage
// failures are reported through Identity.Err.
func (r *Resolver) Resolve(ctx context.Context, raw string) Identity {
	id := Identity{Input: raw, Original: strings.TrimSpace(raw), Match: economymodels.MatchNone}
	if id.Original == "" {
		return id
	}

	p, err := r.store.ByCurrentUsername(ctx, id.Original)
	switch {
	case err == nil:
		id.Resolved = p.GameUsername
		id.Match = economymodels.MatchCurrent
		id.Profile = linkedProfile(p)
		return id
	case !errors.Is(err, ErrProfileNotFound):
		return r.failed(id, err)
	}

	p, err = r.store.ByHistoricalUsername(ctx, id.Original)
	switch {
	case err == nil && p.GameUsername != "":
		id.Resolved = p.GameUsername
		id.Match = economymodels.MatchHistory
		id.AliasResolved = !strings.EqualFold(id.Original, p.GameUsername)
		id.Profile = linkedProfile(p)
		if id.AliasResolved {
			r.logger.Info("Alias resolved",
				zap.String("alias", id.Original),
				zap.String("current", id.Resolved),
				zap.Uint("profile_id", p.ID),
			)
		}
		return id
	case err != nil && !errors.Is(err, ErrProfileNotFound):
		return r.failed(id, err)
	}

	id.Resolved = id.Original
	return id
}

func (r *Resolver) failed(id Identity, err error) Identity {
	r.logger.Warn("Identity resolution failed", zap.String("username", id.Original), zap.Error(err))
	id.Err = err
	id.Match = economymodels.MatchNone
	id.Resolved = ""
	return id
}

func linkedProfile(p *models.Profile) *LinkedProfile {
	lp := &LinkedProfile{
		ProfileID:          p.ID,
		ChatID:             p.ChatID,
		ChatUsername:       p.ChatUsername,
		ChatDisplayName:    p.ChatDisplayName,
		VerificationStatus: p.VerificationStatus,
		VerifiedAt:         p.VerifiedAt,
	}
	if p.GameAccountID != nil {
		lp.GameAccountID = *p.GameAccountID
	}
	return lp
}
