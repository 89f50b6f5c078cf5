package ledger

import (
	"strings"
	"time"

	"clan-ledger/core/gameapi"
	"clan-ledger/feature/economy/models"
)

// RawRecord is one feed record as the processor sees it.
type RawRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Gold      int64     `json:"gold"`
	Gems      int64     `json:"gems"`
	CreatedAt time.Time `json:"created_at"`
}

// FromFeed converts ledger feed entries.
func FromFeed(entries []gameapi.LedgerRecord) []RawRecord {
	out := make([]RawRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, RawRecord{
			ID:        e.ID,
			Type:      e.Type,
			Username:  e.PlayerUsername,
			Gold:      e.Gold,
			Gems:      e.Gems,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

var currencyAliases = map[string]string{
	"gold":  models.CurrencyGold,
	"oro":   models.CurrencyGold,
	"gem":   models.CurrencyGems,
	"gems":  models.CurrencyGems,
	"gemme": models.CurrencyGems,
}

// NormalizeCurrency maps a currency name to gold or gems.
func NormalizeCurrency(name string) (string, bool) {
	c, ok := currencyAliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}
