package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
	Log      LogConfig
	Seed     SeedConfig
	// LowStockThreshold is the default threshold of the low-stock listing and report.
	LowStockThreshold int
	SwaggerHost       string
	// ResetDB drops and recreates the schema at startup.
	ResetDB bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
	// LoginRateLimit is the number of login attempts per second allowed per client IP.
	LoginRateLimit float64
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver          string // mysql, postgres, sqlite
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	ItemTTL  time.Duration
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// LedgerConfig bounds a single stock movement unit of work.
type LedgerConfig struct {
	Timeout time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// SeedConfig holds bootstrap data settings used by cmd/seed.
type SeedConfig struct {
	AdminPassword string
	AdminEmail    string
}

var (
	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("JWT_SECRET must not be empty")
	// ErrNegativeExpiration is returned when the token lifetime is negative.
	ErrNegativeExpiration = errors.New("JWT_EXPIRATION must not be negative")
)

// Load builds Config from environment variables with defaults.
// Keys map to variables by upper-casing and replacing dots, so
// "jwt.secret" is read from JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			LoginRateLimit: v.GetFloat64("login.rate_limit"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			ItemTTL:  v.GetDuration("redis.item_ttl"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			// expressed in seconds
			Expiration: time.Duration(v.GetInt64("jwt.expiration")) * time.Second,
		},
		Ledger: LedgerConfig{
			Timeout: v.GetDuration("ledger.timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Seed: SeedConfig{
			AdminPassword: v.GetString("seed.admin_password"),
			AdminEmail:    v.GetString("seed.admin_email"),
		},
		LowStockThreshold: v.GetInt("low_stock.threshold"),
		SwaggerHost:       v.GetString("swagger.host"),
		ResetDB:           v.GetBool("reset.db"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("login.rate_limit", 5.0)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.url", "user:password@tcp(localhost:3306)/inventory?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.item_ttl", 5*time.Minute)

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.expiration", 86400)

	v.SetDefault("ledger.timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("seed.admin_password", "admin123")
	v.SetDefault("seed.admin_email", "admin@example.com")

	v.SetDefault("low_stock.threshold", 10)
	v.SetDefault("swagger.host", "")
	v.SetDefault("reset.db", false)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return ErrMissingSecret
	}
	if c.JWT.Expiration < 0 {
		return ErrNegativeExpiration
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Ledger.Timeout <= 0 {
		return fmt.Errorf("LEDGER_TIMEOUT must be positive, got %s", c.Ledger.Timeout)
	}
	return nil
}
