package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration file at path on top of Default, applies
// environment overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 - path comes from the operator
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ApplyEnv overrides file values with MYSITE_* variables
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MYSITE_LISTEN_ADDR":      &cfg.Server.ListenAddr,
		"MYSITE_DATABASE_DRIVER":  &cfg.Database.Driver,
		"MYSITE_DATABASE_DSN":     &cfg.Database.DSN,
		"MYSITE_SESSION_STORE":    &cfg.Sessions.Store,
		"MYSITE_REDIS_ADDR":       &cfg.Redis.Addr,
		"MYSITE_REDIS_PASSWORD":   &cfg.Redis.Password,
		"MYSITE_SUCCESS_REDIRECT": &cfg.Registration.SuccessRedirect,
		"MYSITE_PASSWORD_HASHER":  &cfg.Registration.Hasher,
		"MYSITE_LOG_LEVEL":        &cfg.Log.Level,
		"MYSITE_LOG_FORMAT":       &cfg.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"MYSITE_DATABASE_MIGRATE": &cfg.Database.Migrate,
		"MYSITE_SEED_DEMO_GAMES":  &cfg.Database.SeedDemoGames,
		"MYSITE_COOKIE_SECURE":    &cfg.Sessions.CookieSecure,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = b
	}

	return nil
}
