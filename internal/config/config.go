package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest JWT signing secret the server will start with.
const MinSecretLength = 32

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	Env                string // development, production, test or staging
	LogLevel           string
	CORSAllowedOrigins []string

	Database Database
	JWT      JWT
	Hashing  Hashing
	Throttle Throttle
	Redis    Redis
	Events   Events
	Seed     Seed
}

// Database selects the store driver and its connection string.
type Database struct {
	Driver string // sqlite or postgres
	URL    string
}

// JWT configures access token issuance.
type JWT struct {
	Secret    string
	ExpiresIn time.Duration
	Issuer    string
}

// Hashing configures bcrypt cost and how many hashes may run at once.
type Hashing struct {
	Cost    int
	Workers int
}

// Throttle bounds login attempts per client within a fixed window.
type Throttle struct {
	TTL   time.Duration
	Limit int
}

// Redis is optional; an empty Addr keeps throttling in process.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Events configures audit event retention.
type Events struct {
	Retention time.Duration
	Schedule  string // standard cron expression
}

// Seed is the root administrator ensured at startup.
type Seed struct {
	AdminEmail    string
	AdminPassword string
}

var (
	ErrMissingSecret   = errors.New("JWT_SECRET is required")
	ErrSecretTooShort  = fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength)
	ErrUnknownDriver   = errors.New("DATABASE_DRIVER must be sqlite or postgres")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// Load reads configuration from environment variables, optionally overlaid on
// a YAML file named by CONFIG_FILE, and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_url", "file:articlehub.db?_pragma=foreign_keys(1)")
	v.SetDefault("jwt_expires_in", "1h")
	v.SetDefault("jwt_issuer", "articlehub")
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("hash_workers", runtime.NumCPU())
	v.SetDefault("throttle_ttl", "60")
	v.SetDefault("throttle_limit", 10)
	v.SetDefault("redis_db", 0)
	v.SetDefault("event_retention", "720h")
	v.SetDefault("retention_schedule", "0 3 * * *")
	v.SetDefault("seed_admin_email", "admin@example.com")
	v.SetDefault("seed_admin_password", "Admin@123")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:         v.GetInt("port"),
		Env:                strings.ToLower(v.GetString("app_env")),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		Database: Database{
			Driver: strings.ToLower(v.GetString("database_driver")),
			URL:    v.GetString("database_url"),
		},
		JWT: JWT{
			Secret: v.GetString("jwt_secret"),
			Issuer: v.GetString("jwt_issuer"),
		},
		Hashing: Hashing{
			Cost:    v.GetInt("bcrypt_cost"),
			Workers: v.GetInt("hash_workers"),
		},
		Throttle: Throttle{Limit: v.GetInt("throttle_limit")},
		Redis: Redis{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Events: Events{Schedule: v.GetString("retention_schedule")},
		Seed: Seed{
			AdminEmail:    v.GetString("seed_admin_email"),
			AdminPassword: v.GetString("seed_admin_password"),
		},
	}

	var err error
	if cfg.JWT.ExpiresIn, err = parseDuration(v.GetString("jwt_expires_in")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	if cfg.Throttle.TTL, err = parseDuration(v.GetString("throttle_ttl")); err != nil {
		return nil, fmt.Errorf("THROTTLE_TTL: %w", err)
	}
	if cfg.Events.Retention, err = parseDuration(v.GetString("event_retention")); err != nil {
		return nil, fmt.Errorf("EVENT_RETENTION: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the invariants the server refuses to start without.
func (c *Config) Validate() error {
	switch {
	case c.JWT.Secret == "":
		return ErrMissingSecret
	case len(c.JWT.Secret) < MinSecretLength:
		return ErrSecretTooShort
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return ErrUnknownDriver
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.ServerPort)
	}
	if c.Hashing.Cost < bcrypt.MinCost || c.Hashing.Cost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Hashing.Workers < 1 {
		c.Hashing.Workers = 1
	}
	if c.Throttle.Limit < 1 {
		return errors.New("THROTTLE_LIMIT must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// parseDuration accepts Go durations ("1h", "90s") and bare integers, which
// are read as seconds.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	var d time.Duration
	if secs, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		d, err = time.ParseDuration(raw)
		if err != nil {
			return 0, err
		}
	}
	if d <= 0 {
		return 0, ErrInvalidDuration
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
