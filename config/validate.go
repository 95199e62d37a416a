package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails
	ErrInvalidConfig = errors.New("invalid config")
)

// Validate checks every section and names the offending yaml key
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.ListenAddr); err != nil {
		return fmt.Errorf("%w: server.listen_addr %q must be host:port: %v", ErrInvalidConfig, c.Server.ListenAddr, err)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: server.request_timeout must be positive", ErrInvalidConfig)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("%w: server.idle_timeout must not be negative", ErrInvalidConfig)
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("%w: database.dsn is required for driver %q", ErrInvalidConfig, c.Database.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: database.driver must be postgres, sqlite or memory, got %q", ErrInvalidConfig, c.Database.Driver)
	}

	switch c.Sessions.Store {
	case "database":
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("%w: redis.addr is required when sessions.store is redis", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: sessions.store must be database or redis, got %q", ErrInvalidConfig, c.Sessions.Store)
	}
	if c.Sessions.MaxAge <= 0 {
		return fmt.Errorf("%w: sessions.max_age must be positive", ErrInvalidConfig)
	}
	if c.Sessions.CookieName == "" {
		return fmt.Errorf("%w: sessions.cookie_name is required", ErrInvalidConfig)
	}

	redirect := c.Registration.SuccessRedirect
	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		return fmt.Errorf("%w: registration.success_redirect must be a path starting with /, got %q", ErrInvalidConfig, redirect)
	}
	switch c.Registration.Hasher {
	case "bcrypt":
		if c.Registration.BcryptCost < bcrypt.MinCost || c.Registration.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("%w: registration.bcrypt_cost must be between %d and %d", ErrInvalidConfig, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case "argon2id":
	default:
		return fmt.Errorf("%w: registration.hasher must be bcrypt or argon2id, got %q", ErrInvalidConfig, c.Registration.Hasher)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

// SlogLevel parses the configured level name
func (l LogSection) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}
