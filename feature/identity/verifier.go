package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"clan-ledger/core/gameapi"
	"clan-ledger/feature/identity/models"

	"go.uber.org/zap"
)

// MethodPersonalMessage is the verification method that checks the player's in-game bio.
const MethodPersonalMessage = "personal_message"

// DefaultCodeTTL is how long a verification code stays valid.
const DefaultCodeTTL = 30 * time.Minute

// Directory looks players up in the game.
type Directory interface {
	ClanID() string
	PlayerByUsername(ctx context.Context, username string) (*gameapi.Player, error)
	PlayerByID(ctx context.Context, id string) (*gameapi.Player, error)
}

// Challenge is returned by Start.
type Challenge struct {
	Code          string    `json:"code"`
	GameUsername  string    `json:"game_username"`
	GameAccountID string    `json:"game_account_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Verifier proves ownership of a game account by asking the player to put a code in
// their personal message.
type Verifier struct {
	store     *Store
	linker    *Linker
	directory Directory
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewVerifier creates a verifier. A non-positive ttl uses DefaultCodeTTL.
func NewVerifier(store *Store, linker *Linker, directory Directory, ttl time.Duration, logger *zap.Logger) *Verifier {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &Verifier{
		store:     store,
		linker:    linker,
		directory: directory,
		ttl:       ttl,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start looks the player up, checks clan membership and stores a fresh code on the
// chat user's profile.
func (v *Verifier) Start(ctx context.Context, chatID int64, username string) (*Challenge, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	player, err := v.directory.PlayerByUsername(ctx, username)
	if errors.Is(err, gameapi.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", username, err)
	}
	if clan := v.directory.ClanID(); clan != "" && player.ClanID != clan {
		return nil, ErrNotInClan
	}

	code, err := newCode()
	if err != nil {
		return nil, err
	}
	now := v.now()

	err = v.store.Transaction(ctx, func(tx *Store) error {
		p, err := tx.ByChatID(ctx, chatID)
		if errors.Is(err, ErrProfileNotFound) {
			id := chatID
			p = &models.Profile{ChatID: &id}
			if err := tx.Create(ctx, p); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if p.VerificationStatus != models.VerificationVerified {
			p.VerificationStatus = models.VerificationPending
		}
		p.PendingCode = code
		p.PendingAccountID = player.ID
		p.PendingUsername = player.Username
		p.PendingSince = &now
		return tx.Save(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store verification code: %w", err)
	}

	v.logger.Info("Verification started",
		zap.Int64("chat_id", chatID),
		zap.String("game_username", player.Username),
		zap.String("game_account_id", player.ID),
	)
	return &Challenge{Code: code, GameUsername: player.Username, GameAccountID: player.ID, ExpiresAt: now.Add(v.ttl)}, nil
}

// Confirm checks that the pending code appears in the player's personal message and
// links the profile as verified.
func (v *Verifier) Confirm(ctx context.Context, chatID int64) (LinkResult, error) {
	p, err := v.store.ByChatID(ctx, chatID)
	if errors.Is(err, ErrProfileNotFound) {
		return LinkResult{}, ErrNoPendingVerification
	}
	if err != nil {
		return LinkResult{}, err
	}
	if p.PendingCode == "" || p.PendingSince == nil {
		return LinkResult{}, ErrNoPendingVerification
	}
	if v.now().Sub(*p.PendingSince) > v.ttl {
		if err := v.clearPending(ctx, p); err != nil {
			return LinkResult{}, err
		}
		return LinkResult{}, ErrVerificationExpired
	}

	player, err := v.directory.PlayerByID(ctx, p.PendingAccountID)
	if errors.Is(err, gameapi.ErrNotFound) {
		return LinkResult{}, ErrPlayerNotFound
	}
	if err != nil {
		return LinkResult{}, fmt.Errorf("failed to look up account %s: %w", p.PendingAccountID, err)
	}
	if !strings.Contains(strings.ToUpper(player.PersonalMessage), strings.ToUpper(p.PendingCode)) {
		return LinkResult{}, ErrCodeMismatch
	}

	return v.linker.Link(ctx, LinkRequest{
		ChatID:          chatID,
		ChatUsername:    p.ChatUsername,
		ChatDisplayName: p.ChatDisplayName,
		GameUsername:    player.Username,
		GameAccountID:   player.ID,
		Verified:        true,
		Verification: &VerificationMeta{
			Method:     MethodPersonalMessage,
			Code:       p.PendingCode,
			VerifiedAt: v.now(),
		},
	})
}

func (v *Verifier) clearPending(ctx context.Context, p *models.Profile) error {
	p.PendingCode = ""
	p.PendingAccountID = ""
	p.PendingUsername = ""
	p.PendingSince = nil
	if p.VerificationStatus == models.VerificationPending {
		p.VerificationStatus = models.VerificationUnverified
	}
	return v.store.Save(ctx, p)
}

func newCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
