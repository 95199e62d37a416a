package core

import (
	"log/slog"
	"time"

	"github.com/dcvalino/mysite/pkg/crypto"
)

type Config struct {
	Identities IdentityStore
	Sessions   SessionStorage
	Games      GameStore

	HTTP HTTPAdapter

	// Optional config
	CacheAdapter    Cache
	DisableCache    bool
	SessionConfig   *SessionConfig
	PasswordHasher  crypto.PasswordHandler
	SuccessRedirect string
	RequestTimeout  time.Duration
	Logger          *slog.Logger
}

type SessionConfig struct {
	MaxAge time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 24 * time.Hour,
	}
}

// Site is the assembled application handed to the HTTP adapter
type Site struct {
	Registration Registrar
	Sessions     SessionService
	Catalog      CatalogReader

	SuccessRedirect string
	SessionMaxAge   time.Duration
	RequestTimeout  time.Duration // bounds every store call made while serving a request
	Logger          *slog.Logger
}
