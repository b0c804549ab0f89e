// Package config loads runtime settings from the environment.
//
// A .env file in the working directory is applied first when present; real
// environment variables always win over it.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/sakif/lms-admin/internal/database"
)

const (
	DriverPostgres = database.DriverPostgres
	DriverSQLite   = database.DriverSQLite
)

type Config struct {
	Port            int           `env:"PORT, default=4000"`
	Env             string        `env:"ENV, default=development"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT, default=15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Log      LogConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

type DatabaseConfig struct {
	Driver         string        `env:"DB_DRIVER, default=sqlite"`
	URL            string        `env:"DATABASE_URL, default=file:data/lms.db"`
	MinConns       int           `env:"DB_MIN_CONNS, default=1"`
	MaxConns       int           `env:"DB_MAX_CONNS, default=10"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT, default=5s"`
	AutoMigrate    bool          `env:"DB_AUTO_MIGRATE, default=true"`
}

// JWTConfig holds token settings. An empty Secret is not rejected here; the
// token service refuses to start without one.
type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN, default=1h"`
	Issuer    string        `env:"JWT_ISSUER, default=lms-admin"`
}

// RedisConfig is optional. An empty Addr disables token revocation.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads .env (if any) and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field bounds that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q (want %q or %q)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Database.URL == "" {
		return errors.New("config: DATABASE_URL is empty")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS %d must be between 0 and DB_MAX_CONNS %d",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Database.ConnectTimeout <= 0 {
		return errors.New("config: DB_CONNECT_TIMEOUT must be positive")
	}
	if c.JWT.ExpiresIn <= 0 {
		return errors.New("config: JWT_EXPIRES_IN must be positive")
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT and SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// DatabaseOptions converts the environment settings into pool options.
func (c *Config) DatabaseOptions() database.Config {
	return database.Config{
		Driver:         c.Database.Driver,
		URL:            c.Database.URL,
		MinConns:       c.Database.MinConns,
		MaxConns:       c.Database.MaxConns,
		ConnectTimeout: c.Database.ConnectTimeout,
	}
}

// IsDevelopment reports whether ENV is "development".
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
