package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// AuthConfig selects where accounts live. "remote" delegates login/register
// to the upstream clinic API; "local" uses the embedded Mongo directory.
type AuthConfig struct {
	Mode            string        `env:"AUTH_MODE,             default=remote"`
	UpstreamBaseURL string        `env:"AUTH_UPSTREAM_URL,     default=http://localhost:9090"`
	UpstreamTimeout time.Duration `env:"AUTH_UPSTREAM_TIMEOUT, default=10s"`
	RatePerSecond   float64       `env:"AUTH_RATE_PER_SECOND,  default=5"`
	RateBurst       int           `env:"AUTH_RATE_BURST,       default=10"`
}

type SessionConfig struct {
	TokenTTL time.Duration `env:"SESSION_TOKEN_TTL, default=24h"`
	StoreTTL time.Duration `env:"SESSION_STORE_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.Mode != "remote" && cfg.Auth.Mode != "local" {
		return nil, fmt.Errorf("config: AUTH_MODE must be \"remote\" or \"local\", got %q", cfg.Auth.Mode)
	}
	return &cfg, nil
}
