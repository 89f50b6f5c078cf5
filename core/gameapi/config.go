package gameapi

// Config holds configuration for the game API client.
type Config struct {
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.wolvesville.com"`
	// APIKey is the bot key sent as "Authorization: Bot <key>".
	APIKey string `mapstructure:"api_key" default:""`
	// ClanID is the clan whose ledger, quests and members are read.
	ClanID string `mapstructure:"clan_id" default:""`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// Burst is the rate limiter bucket size.
	Burst int `mapstructure:"burst" default:"5"`
}
