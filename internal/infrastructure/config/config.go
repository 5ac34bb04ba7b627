// Package config loads the process-wide settings once at startup. The
// resulting Config is treated as read-only and passed explicitly to the
// components that need it.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const minSecretLen = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Views    ViewsConfig
	Activity ActivityConfig
}

type AuthConfig struct {
	JWTSecret                string `env:"JWT_SECRET, required"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`
	RefreshTokenExpireDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS,   default=7"`
	BcryptCost               int    `env:"BCRYPT_COST,                 default=10"`
}

func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTokenExpireDays) * 24 * time.Hour
}

type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH, default=blogsphere.db"`
}

// RedisConfig is optional; an empty Addr disables view deduplication.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// MongoConfig is optional; an empty URI sends the activity trail to the log.
type MongoConfig struct {
	URI       string        `env:"MONGO_URI"`
	Database  string        `env:"MONGO_DB,                 default=blogsphere"`
	Retention time.Duration `env:"ACTIVITY_RETENTION,       default=2160h"`
}

func (m MongoConfig) Enabled() bool { return m.URI != "" }

type ViewsConfig struct {
	DedupWindow time.Duration `env:"VIEW_DEDUP_WINDOW, default=1h"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// IsDevelopment reports whether the process runs in the development env.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads an optional .env file, then the environment. Variables already
// set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !c.IsDevelopment() && len(c.Auth.JWTSecret) < minSecretLen {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes outside development", minSecretLen)
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 {
		return errors.New("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.Auth.RefreshTokenExpireDays <= 0 {
		return errors.New("config: REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}
	if c.Views.DedupWindow <= 0 {
		return errors.New("config: VIEW_DEDUP_WINDOW must be positive")
	}
	return nil
}
