package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Ledger    LedgerConfig
	WS        WSConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AllowedOrigins for CORS; "*" echoes any origin back.
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver          string // mysql or sqlite
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// LedgerConfig controls how ledger rows are stamped.
type LedgerConfig struct {
	Currency string
	Timezone string // used to derive local_date from date
}

type WSConfig struct {
	PingInterval time.Duration
	SendBuffer   int
}

// Load reads configuration from defaults, an optional file and env.
// Env var overrides use prefix FINTRACK_ (e.g. FINTRACK_DATABASE_DSN).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.readtimeout", 10*time.Second)
	v.SetDefault("server.writetimeout", 10*time.Second)
	v.SetDefault("server.allowedorigins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "fintrack.db?_busy_timeout=5000&_foreign_keys=1")
	v.SetDefault("database.maxidleconns", 10)
	v.SetDefault("database.maxopenconns", 100)
	v.SetDefault("database.connmaxlifetime", time.Hour)
	v.SetDefault("ratelimit.requests", 100)
	v.SetDefault("ratelimit.window", 60*time.Second)
	v.SetDefault("ledger.currency", "VND")
	v.SetDefault("ledger.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("ws.pinginterval", 30*time.Second)
	v.SetDefault("ws.sendbuffer", 256)

	if path := os.Getenv("FINTRACK_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := time.LoadLocation(c.Ledger.Timezone); err != nil {
		return nil, fmt.Errorf("ledger timezone %q: %w", c.Ledger.Timezone, err)
	}
	return &c, nil
}

// Location returns the ledger time zone, falling back to UTC.
func (c LedgerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
