package config

import (
	"reflect"
	"strings"

	"clan-ledger/core/database"
	"clan-ledger/core/gameapi"
	"clan-ledger/core/lock"
	"clan-ledger/core/logger"
	"clan-ledger/core/retry"
	"clan-ledger/core/scheduler"
	"clan-ledger/core/server"
	"clan-ledger/core/storage"
	"clan-ledger/feature/ledger"
	"clan-ledger/feature/rewards"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that consume them.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the feed archive bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Game holds configuration for the game API client.
	Game gameapi.Config `mapstructure:"game"`
	// Lock holds configuration for the cycle lock.
	Lock lock.Config `mapstructure:"lock"`
	// Retry holds the transient I/O retry policy.
	Retry retry.Config `mapstructure:"retry"`
	// Scheduler holds the polling intervals.
	Scheduler scheduler.Config `mapstructure:"scheduler"`
	// Ledger holds the mission cost parameters.
	Ledger ledger.Config `mapstructure:"ledger"`
	// Rewards holds reward reporting settings.
	Rewards rewards.Config `mapstructure:"rewards"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. GAME_CLAN_ID -> game.clan_id)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PROFILE_AUTO_SYNC_INTERVAL_MINUTES is the name older deployments use.
	_ = v.BindEnv("scheduler.profile_sync_minutes", "SCHEDULER_PROFILE_SYNC_MINUTES", "PROFILE_AUTO_SYNC_INTERVAL_MINUTES")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every 'mapstructure' key in Viper
// with the value of its 'default' tag.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
