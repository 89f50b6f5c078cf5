package lock

import "time"

// Config selects the cycle lock backend.
type Config struct {
	// Backend is "local" (single process) or "redis" (shared across replicas).
	Backend string `mapstructure:"backend" default:"local"`
	// RedisAddr is the redis host:port.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword authenticates against redis.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB selects the redis logical database.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// Prefix namespaces lock keys.
	Prefix string `mapstructure:"prefix" default:"clan-ledger:lock:"`
	// TTL is how long a lock survives a crashed holder.
	TTL time.Duration `mapstructure:"ttl" default:"10m"`
}
