package identity

import (
	"context"
	"time"

	"clan-ledger/feature/identity/models"
)

// NameEntry is one name a profile held.
type NameEntry struct {
	Name            string    `json:"name"`
	BecameCurrentAt time.Time `json:"became_current_at"`
}

// ProfileSnapshot is a read-only view of a profile and its history.
type ProfileSnapshot struct {
	ID                 uint                       `json:"id"`
	ChatID             *int64                     `json:"chat_id,omitempty"`
	ChatUsername       string                     `json:"chat_username,omitempty"`
	ChatDisplayName    string                     `json:"chat_display_name,omitempty"`
	GameUsername       string                     `json:"game_username,omitempty"`
	GameAccountID      string                     `json:"game_account_id,omitempty"`
	VerificationStatus string                     `json:"verification_status"`
	VerificationMethod string                     `json:"verification_method,omitempty"`
	VerifiedAt         *time.Time                 `json:"verified_at,omitempty"`
	GameNames          []NameEntry                `json:"game_names"`
	ChatNames          []NameEntry                `json:"chat_names"`
	Verifications      []models.VerificationEvent `json:"verifications"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

// Snapshot loads a profile with its history, oldest entries first.
func (l *Linker) Snapshot(ctx context.Context, profileID uint) (*ProfileSnapshot, error) {
	return snapshot(ctx, l.store, profileID)
}

func snapshot(ctx context.Context, store *Store, profileID uint) (*ProfileSnapshot, error) {
	p, err := store.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	snap := &ProfileSnapshot{
		ID:                 p.ID,
		ChatID:             p.ChatID,
		ChatUsername:       p.ChatUsername,
		ChatDisplayName:    p.ChatDisplayName,
		GameUsername:       p.GameUsername,
		VerificationStatus: p.VerificationStatus,
		VerificationMethod: p.VerificationMethod,
		VerifiedAt:         p.VerifiedAt,
		GameNames:          []NameEntry{},
		ChatNames:          []NameEntry{},
		Verifications:      p.Verifications,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.GameAccountID != nil {
		snap.GameAccountID = *p.GameAccountID
	}
	if snap.Verifications == nil {
		snap.Verifications = []models.VerificationEvent{}
	}
	for _, n := range p.Names {
		entry := NameEntry{Name: n.Name, BecameCurrentAt: n.BecameCurrentAt}
		if n.Kind == models.NameKindChat {
			snap.ChatNames = append(snap.ChatNames, entry)
		} else {
			snap.GameNames = append(snap.GameNames, entry)
		}
	}
	return snap, nil
}
