// Package config loads the site configuration from a YAML file with MYSITE_*
// environment overrides.
package config

import "time"

// Config represents the mysite configuration file
type Config struct {
	Server       ServerSection       `yaml:"server"`
	Database     DatabaseSection     `yaml:"database"`
	Sessions     SessionsSection     `yaml:"sessions"`
	Redis        RedisSection        `yaml:"redis"`
	Registration RegistrationSection `yaml:"registration"`
	Log          LogSection          `yaml:"log"`
}

type ServerSection struct {
	ListenAddr      string        `yaml:"listen_addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// IdleTimeout bounds idle keep-alive connections; 0 falls back to request_timeout
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// DatabaseSection selects the store backing identities, the catalog and
// (unless sessions.store is "redis") sessions.
type DatabaseSection struct {
	// Driver is one of "postgres", "sqlite" or "memory"
	Driver string `yaml:"driver"`

	// DSN is a postgres connection string or a sqlite file path
	DSN string `yaml:"dsn"`

	MaxConns      int32 `yaml:"max_conns"`
	Migrate       bool  `yaml:"migrate"`
	SeedDemoGames bool  `yaml:"seed_demo_games"`
}

type SessionsSection struct {
	// Store is "database" or "redis"
	Store         string        `yaml:"store"`
	MaxAge        time.Duration `yaml:"max_age"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
	CookieName    string        `yaml:"cookie_name"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	Cache         CacheSection  `yaml:"cache"`
}

type CacheSection struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	MaxSize int           `yaml:"max_size"`
}

type RedisSection struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type RegistrationSection struct {
	SuccessRedirect string `yaml:"success_redirect"`

	// Hasher is "bcrypt" or "argon2id"
	Hasher     string `yaml:"hasher"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

type LogSection struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`

	// Format is "text" or "json"
	Format string `yaml:"format"`
}

// Default returns the configuration used for every key the file leaves out
func Default() Config {
	return Config{
		Server: ServerSection{
			ListenAddr:      ":3000",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			IdleTimeout:     60 * time.Second,
		},
		Database: DatabaseSection{
			Driver:        "sqlite",
			DSN:           "mysite.db",
			MaxConns:      10,
			Migrate:       true,
			SeedDemoGames: false,
		},
		Sessions: SessionsSection{
			Store:         "database",
			MaxAge:        24 * time.Hour,
			PurgeInterval: time.Hour,
			CookieName:    "mysite_session",
			Cache: CacheSection{
				Enabled: true,
				TTL:     5 * time.Minute,
				MaxSize: 500,
			},
		},
		Redis: RedisSection{
			Addr:   "localhost:6379",
			Prefix: "mysite:",
		},
		Registration: RegistrationSection{
			SuccessRedirect: "/main",
			Hasher:          "bcrypt",
			BcryptCost:      10,
		},
		Log: LogSection{
			Level:  "info",
			Format: "text",
		},
	}
}
