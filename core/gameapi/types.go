package gameapi

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"clan-ledger/core/utils"
)

// LedgerRecord is one entry of the clan ledger feed.
type LedgerRecord struct {
	ID             string
	Type           string
	PlayerUsername string
	PlayerID       string
	Gold           int64
	Gems           int64
	CreatedAt      time.Time
	// Raw is the record as received, kept for the feed archive.
	Raw json.RawMessage
}

// timestampKeys are tried in order; feeds have used all of them.
var timestampKeys = []string{"creationTime", "createdAt", "created_at", "timestamp", "time"}

// UnmarshalJSON decodes the loosely typed ledger payload.
func (r *LedgerRecord) UnmarshalJSON(data []byte) error {
	var m map[string]any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return err
	}

	r.ID = utils.ToString(m["id"])
	r.Type = utils.ToString(m["type"])
	r.PlayerUsername = utils.ToString(m["playerUsername"])
	r.PlayerID = utils.ToString(m["playerId"])
	r.Gold = utils.ToInt64(m["gold"])
	r.Gems = utils.ToInt64(m["gems"])
	for _, key := range timestampKeys {
		if v, ok := m[key]; ok && v != nil {
			if ts, ok := ParseTimestamp(v); ok {
				r.CreatedAt = ts
				break
			}
		}
	}
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// ParseTimestamp accepts RFC 3339 strings (with or without zone) and unix epochs in
// seconds or milliseconds.
func ParseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return time.Time{}, false
			}
			n = int64(f)
		}
		return epoch(n), true
	case float64:
		return epoch(int64(t)), true
	case int64:
		return epoch(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return epoch(n), true
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func epoch(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// Quest is the quest part of the active mission payload.
type Quest struct {
	ID                  string `json:"id"`
	PurchasableWithGems bool   `json:"purchasableWithGems"`
	PromoImageURL       string `json:"promoImageUrl,omitempty"`
}

// Participant is a player taking part in the active mission.
type Participant struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

// ActiveMission is the clan's currently running quest.
type ActiveMission struct {
	Quest         *Quest          `json:"quest"`
	TierStartTime string          `json:"tierStartTime"`
	Tier          int             `json:"tier"`
	Participants  []Participant   `json:"participants"`
	Raw           json.RawMessage `json:"-"`
}

// Player is the directory payload for a single player.
type Player struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	PersonalMessage string `json:"personalMessage"`
	ClanID          string `json:"clanId"`
}

// Member is one entry of the clan member list.
type Member struct {
	PlayerID string `json:"playerId"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AccountID returns the member's player id whichever field carried it.
func (m Member) AccountID() string {
	if m.PlayerID != "" {
		return m.PlayerID
	}
	return m.ID
}
