package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"clan-ledger/feature/economy"
	"clan-ledger/feature/identity/models"

	"go.uber.org/zap"
)

// Conflict reasons.
const (
	ConflictUsernameTaken = "username_taken"
	ConflictAccountTaken  = "account_taken"
)

// EconomyMerger is the part of the ledger store the linker needs.
type EconomyMerger interface {
	Ensure(ctx context.Context, username string) error
	Merge(ctx context.Context, from, to string) (economy.MergeResult, error)
}

// VerificationMeta describes how a link was verified.
type VerificationMeta struct {
	Method     string         `json:"method"`
	Code       string         `json:"code,omitempty"`
	VerifiedAt time.Time      `json:"verified_at"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// LinkRequest binds a chat account to a game account.
type LinkRequest struct {
	ChatID          int64             `json:"chat_id"`
	ChatUsername    string            `json:"chat_username,omitempty"`
	ChatDisplayName string            `json:"chat_display_name,omitempty"`
	GameUsername    string            `json:"game_username"`
	GameAccountID   string            `json:"game_account_id,omitempty"`
	Verified        bool              `json:"verified"`
	Verification    *VerificationMeta `json:"verification,omitempty"`
}

// MergeOutcome is the economy side of a rename.
type MergeOutcome struct {
	economy.MergeResult
	Error string `json:"error,omitempty"`
}

// LinkResult describes what Link did.
type LinkResult struct {
	Created  bool   `json:"created"`
	Updated  bool   `json:"updated"`
	Conflict bool   `json:"conflict"`
	Reason   string `json:"reason,omitempty"`
	// ConflictProfileID is the profile already owning the username or account.
	ConflictProfileID uint `json:"conflict_profile_id,omitempty"`

	GameUsernameChanged     bool   `json:"game_username_changed"`
	PreviousGameUsername    string `json:"previous_game_username,omitempty"`
	ChatDisplayNameChanged  bool   `json:"chat_display_name_changed"`
	PreviousChatDisplayName string `json:"previous_chat_display_name,omitempty"`

	Merge    *MergeOutcome    `json:"merge,omitempty"`
	Verified bool             `json:"verified"`
	Profile  *ProfileSnapshot `json:"profile,omitempty"`
}

// Linker is the only writer of profile identity fields.
type Linker struct {
	store   *Store
	economy EconomyMerger
	logger  *zap.Logger
	now     func() time.Time
}

// NewLinker creates a linker.
func NewLinker(store *Store, economy EconomyMerger, logger *zap.Logger) *Linker {
	return &Linker{store: store, economy: economy, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Link binds req.ChatID to req.GameUsername. A username or account id already owned by
// another profile yields a conflict result and no change. A changed game username is
// appended to history and the old economy record is merged into the new one.
func (l *Linker) Link(ctx context.Context, req LinkRequest) (LinkResult, error) {
	var result LinkResult
	username := strings.TrimSpace(req.GameUsername)
	if username == "" {
		return result, ErrInvalidUsername
	}
	accountID := strings.TrimSpace(req.GameAccountID)
	displayName := strings.TrimSpace(req.ChatDisplayName)
	now := l.now()

	var profileID uint
	err := l.store.Transaction(ctx, func(tx *Store) error {
		existing, err := tx.ByChatID(ctx, req.ChatID)
		if err != nil && !errors.Is(err, ErrProfileNotFound) {
			return err
		}

		if owner, err := tx.ByCurrentUsername(ctx, username); err == nil {
			if existing == nil || owner.ID != existing.ID {
				result.Conflict, result.Reason, result.ConflictProfileID = true, ConflictUsernameTaken, owner.ID
				return nil
			}
		} else if !errors.Is(err, ErrProfileNotFound) {
			return err
		}

		if accountID != "" {
			if owner, err := tx.ByAccountID(ctx, accountID); err == nil {
				if existing == nil || owner.ID != existing.ID {
					result.Conflict, result.Reason, result.ConflictProfileID = true, ConflictAccountTaken, owner.ID
					return nil
				}
			} else if !errors.Is(err, ErrProfileNotFound) {
				return err
			}
		}

		p := existing
		if p == nil {
			chatID := req.ChatID
			p = &models.Profile{ChatID: &chatID, ChatUsername: req.ChatUsername, ChatDisplayName: displayName}
			setGameUsername(p, username)
			if accountID != "" {
				p.GameAccountID = &accountID
			}
			applyVerification(p, req, now)
			if err := tx.Create(ctx, p); err != nil {
				return err
			}
			if err := tx.AppendName(ctx, p.ID, models.NameKindGame, username, now); err != nil {
				return err
			}
			if displayName != "" {
				if err := tx.AppendName(ctx, p.ID, models.NameKindChat, displayName, now); err != nil {
					return err
				}
			}
			result.Created = true
		} else {
			if err := l.updateExisting(ctx, tx, p, req, username, accountID, displayName, now, &result); err != nil {
				return err
			}
			result.Updated = true
		}

		if req.Verified {
			if err := tx.AppendVerification(ctx, verificationEvent(p, req, now)); err != nil {
				return err
			}
			result.Verified = true
		}
		profileID = p.ID
		return nil
	})
	if err != nil {
		return LinkResult{}, fmt.Errorf("failed to link chat %d to %s: %w", req.ChatID, username, err)
	}
	if result.Conflict {
		l.logger.Warn("Link conflict",
			zap.Int64("chat_id", req.ChatID),
			zap.String("game_username", username),
			zap.String("reason", result.Reason),
			zap.Uint("owner_profile_id", result.ConflictProfileID),
		)
		return result, nil
	}

	if result.GameUsernameChanged {
		result.Merge = l.merge(ctx, result.PreviousGameUsername, username)
	} else if err := l.economy.Ensure(ctx, username); err != nil {
		l.logger.Warn("Could not create economy record", zap.String("username", username), zap.Error(err))
	}

	snap, err := l.Snapshot(ctx, profileID)
	if err != nil {
		return result, err
	}
	result.Profile = snap

	l.logger.Info("Profile linked",
		zap.Uint("profile_id", profileID),
		zap.Int64("chat_id", req.ChatID),
		zap.String("game_username", username),
		zap.Bool("created", result.Created),
		zap.Bool("game_username_changed", result.GameUsernameChanged),
		zap.String("previous_game_username", result.PreviousGameUsername),
		zap.Bool("verified", result.Verified),
	)
	return result, nil
}

func (l *Linker) updateExisting(ctx context.Context, tx *Store, p *models.Profile, req LinkRequest, username, accountID, displayName string, now time.Time, result *LinkResult) error {
	switch {
	case p.GameUsername == "":
		setGameUsername(p, username)
		if err := tx.AppendName(ctx, p.ID, models.NameKindGame, username, now); err != nil {
			return err
		}
	case p.GameUsername != username:
		previous := p.GameUsername
		// Profiles created before history was kept may lack their first name.
		known, err := tx.HasName(ctx, p.ID, models.NameKindGame, previous)
		if err != nil {
			return err
		}
		if !known {
			if err := tx.AppendName(ctx, p.ID, models.NameKindGame, previous, p.CreatedAt); err != nil {
				return err
			}
		}
		setGameUsername(p, username)
		if err := tx.AppendName(ctx, p.ID, models.NameKindGame, username, now); err != nil {
			return err
		}
		result.GameUsernameChanged = true
		result.PreviousGameUsername = previous
	}

	if displayName != "" && displayName != p.ChatDisplayName {
		if p.ChatDisplayName != "" {
			result.ChatDisplayNameChanged = true
			result.PreviousChatDisplayName = p.ChatDisplayName
		}
		p.ChatDisplayName = displayName
		if err := tx.AppendName(ctx, p.ID, models.NameKindChat, displayName, now); err != nil {
			return err
		}
	}
	if req.ChatUsername != "" {
		p.ChatUsername = req.ChatUsername
	}
	if accountID != "" {
		p.GameAccountID = &accountID
	}
	applyVerification(p, req, now)
	return tx.Save(ctx, p)
}

func (l *Linker) merge(ctx context.Context, from, to string) *MergeOutcome {
	res, err := l.economy.Merge(ctx, from, to)
	out := &MergeOutcome{MergeResult: res}
	if err != nil {
		out.Status = "failed"
		out.Error = err.Error()
		l.logger.Error("Economy merge after rename failed",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
	}
	return out
}

// TouchChat records chat-side metadata, creating the profile on first contact.
// changed reports a display-name change.
func (l *Linker) TouchChat(ctx context.Context, chatID int64, displayName, chatUsername string) (p *models.Profile, changed bool, err error) {
	displayName = strings.TrimSpace(displayName)
	now := l.now()
	err = l.store.Transaction(ctx, func(tx *Store) error {
		existing, err := tx.ByChatID(ctx, chatID)
		if errors.Is(err, ErrProfileNotFound) {
			id := chatID
			p = &models.Profile{ChatID: &id, ChatDisplayName: displayName, ChatUsername: chatUsername}
			if err := tx.Create(ctx, p); err != nil {
				return err
			}
			if displayName != "" {
				return tx.AppendName(ctx, p.ID, models.NameKindChat, displayName, now)
			}
			return nil
		}
		if err != nil {
			return err
		}
		p = existing
		dirty := false
		if displayName != "" && displayName != p.ChatDisplayName {
			changed = p.ChatDisplayName != ""
			p.ChatDisplayName = displayName
			dirty = true
			if err := tx.AppendName(ctx, p.ID, models.NameKindChat, displayName, now); err != nil {
				return err
			}
		}
		if chatUsername != "" && chatUsername != p.ChatUsername {
			p.ChatUsername = chatUsername
			dirty = true
		}
		if !dirty {
			return nil
		}
		return tx.Save(ctx, p)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to record chat contact %d: %w", chatID, err)
	}
	return p, changed, nil
}

func setGameUsername(p *models.Profile, username string) {
	key := NormalizeName(username)
	p.GameUsername = username
	p.GameUsernameKey = &key
}

func applyVerification(p *models.Profile, req LinkRequest, now time.Time) {
	if !req.Verified {
		return
	}
	at := now
	method := "manual"
	if req.Verification != nil {
		if !req.Verification.VerifiedAt.IsZero() {
			at = req.Verification.VerifiedAt
		}
		if req.Verification.Method != "" {
			method = req.Verification.Method
		}
	}
	p.VerificationStatus = models.VerificationVerified
	p.VerificationMethod = method
	p.VerifiedAt = &at
	p.PendingCode = ""
	p.PendingAccountID = ""
	p.PendingUsername = ""
	p.PendingSince = nil
}

func verificationEvent(p *models.Profile, req LinkRequest, now time.Time) *models.VerificationEvent {
	ev := &models.VerificationEvent{
		ProfileID:    p.ID,
		Method:       p.VerificationMethod,
		GameUsername: p.GameUsername,
		VerifiedAt:   now,
	}
	if p.VerifiedAt != nil {
		ev.VerifiedAt = *p.VerifiedAt
	}
	if p.GameAccountID != nil {
		ev.GameAccountID = *p.GameAccountID
	}
	if req.Verification != nil {
		ev.Code = req.Verification.Code
		if len(req.Verification.Extra) > 0 {
			if raw, err := json.Marshal(req.Verification.Extra); err == nil {
				ev.Metadata = string(raw)
			}
		}
	}
	return ev
}
