package gameapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clan-ledger/core/retry"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("game api %s returned %d: %s", e.Path, e.Status, e.Body)
}

// Client talks to the game REST API. Permanent failures (404 and other 4xx except 429)
// are wrapped with retry.Permanent; everything else is left for the caller's retry policy.
type Client struct {
	baseURL string
	apiKey  string
	clanID  string
	http    *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
	logger  *zap.Logger
}

// New creates a game API client.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		clanID:  cfg.ClanID,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// ClanID returns the configured clan.
func (c *Client) ClanID() string {
	return c.clanID
}

// Ledger fetches the clan ledger.
func (c *Client) Ledger(ctx context.Context) ([]LedgerRecord, error) {
	var records []LedgerRecord
	if err := c.get(ctx, "/clans/"+url.PathEscape(c.clanID)+"/ledger", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ActiveMission fetches the running quest. It returns nil, nil when none is active.
func (c *Client) ActiveMission(ctx context.Context) (*ActiveMission, error) {
	var raw json.RawMessage
	err := c.get(ctx, "/clans/"+url.PathEscape(c.clanID)+"/quests/active", nil, &raw)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var mission ActiveMission
	if err := json.Unmarshal(raw, &mission); err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to decode active mission: %w", err))
	}
	if mission.Quest == nil {
		return nil, nil
	}
	mission.Raw = raw
	return &mission, nil
}

// Members fetches the clan member list.
func (c *Client) Members(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := c.get(ctx, "/clans/"+url.PathEscape(c.clanID)+"/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// PlayerByUsername looks a player up by exact username.
// Concurrent lookups for the same name share one request.
func (c *Client) PlayerByUsername(ctx context.Context, username string) (*Player, error) {
	key := "username:" + strings.ToLower(strings.TrimSpace(username))
	return c.player(ctx, key, "/players/search", url.Values{"username": {strings.TrimSpace(username)}})
}

// PlayerByID looks a player up by account id.
func (c *Client) PlayerByID(ctx context.Context, id string) (*Player, error) {
	return c.player(ctx, "id:"+id, "/players/"+url.PathEscape(id), nil)
}

func (c *Client) player(ctx context.Context, key, path string, query url.Values) (*Player, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		var p Player
		if err := c.get(ctx, path, query, &p); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p := v.(Player)
	return &p, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Authorization", "Bot "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call game api %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("failed to read game api %s: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return retry.Permanent(fmt.Errorf("game api %s: %w", path, ErrNotFound))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &StatusError{Path: path, Status: resp.StatusCode, Body: truncate(body)}
	case resp.StatusCode >= 400:
		return retry.Permanent(&StatusError{Path: path, Status: resp.StatusCode, Body: truncate(body)})
	}

	if err := json.Unmarshal(body, out); err != nil {
		return retry.Permanent(fmt.Errorf("failed to decode game api %s: %w", path, err))
	}
	c.logger.Debug("Game API call", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.Int("bytes", len(body)))
	return nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
