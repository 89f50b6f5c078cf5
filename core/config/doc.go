// Package config provides configuration management for clan-ledger.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (loaded with godotenv before Viper reads the environment).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings. Each
// subsection is declared by the package that consumes it, with `mapstructure` keys
// and `default` tags:
//   - Server: HTTP port and API key
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: MinIO credentials and the feed archive bucket
//   - Log: logging level and format
//   - Game: game API base URL, bot key, clan id and request limits
//   - Lock: cycle lock backend (local or redis)
//   - Retry: backoff policy for feed and directory calls
//   - Scheduler: polling intervals for each job
//   - Ledger: mission cost parameters
//   - Rewards: timezone used to compute reporting periods
//
// Nested keys map to environment variables by replacing dots with underscores,
// so game.clan_id is read from GAME_CLAN_ID.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Game.ClanID)
package config
