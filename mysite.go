package mysite

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/dcvalino/mysite/pkg/cache"
	"github.com/dcvalino/mysite/pkg/crypto"
	"github.com/dcvalino/mysite/services"
)

// interfaces
type (
	IdentityStore  = core.IdentityStore
	SessionStorage = core.SessionStorage
	GameStore      = core.GameStore
	Store          = core.Store
	Cache          = core.Cache

	HTTPAdapter = core.HTTPAdapter

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Config        = core.Config
	Site          = core.Site
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
)

type (
	Identity            = core.Identity
	RegistrationRequest = core.RegistrationRequest
	Session             = core.Session
	Game                = core.Game
	CacheStats          = core.CacheStats
)

const (
	defaultSuccessRedirect = "/main"
	defaultRequestTimeout  = 5 * time.Second
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = cache.NewInMemoryCache
	NewArgon2            = crypto.NewArgon2
	NewBcrypt            = crypto.NewBcrypt
	DefaultSessionConfig = core.DefaultSessionConfig
)

var (
	ErrInvalidInput       = core.ErrInvalidInput
	ErrPasswordMismatch   = core.ErrPasswordMismatch
	ErrDuplicateIdentity  = core.ErrDuplicateIdentity
	ErrStorageUnavailable = core.ErrStorageUnavailable
	ErrHashingFailed      = core.ErrHashingFailed
)

var (
	ErrInvalidToken    = core.ErrInvalidToken
	ErrSessionNotFound = core.ErrSessionNotFound
	ErrSessionExpired  = core.ErrSessionExpired
	ErrGameNotFound    = core.ErrGameNotFound
)

var (
	ErrIdentityStoreRequired  = core.ErrIdentityStoreRequired
	ErrSessionStorageRequired = core.ErrSessionStorageRequired
	ErrGameStoreRequired      = core.ErrGameStoreRequired
	ErrHTTPAdapterRequired    = core.ErrHTTPAdapterRequired
	ErrInvalidRedirect        = core.ErrInvalidRedirect
)

// Mysite is the assembled application
type Mysite struct {
	Site *Site

	// Sessions is exposed so the caller can run the expiry janitor
	Sessions *services.SessionManager
}

func New(config Config) (*Mysite, error) {
	if config.Identities == nil {
		return nil, ErrIdentityStoreRequired
	}
	if config.Sessions == nil {
		return nil, ErrSessionStorageRequired
	}
	if config.Games == nil {
		return nil, ErrGameStoreRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	successRedirect := config.SuccessRedirect
	if successRedirect == "" {
		successRedirect = defaultSuccessRedirect
	}
	// Only same-site paths; "//host" would redirect off-site
	if !strings.HasPrefix(successRedirect, "/") || strings.HasPrefix(successRedirect, "//") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRedirect, successRedirect)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil || sessionConfig.MaxAge <= 0 {
		defaults := DefaultSessionConfig()
		sessionConfig = &defaults
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewBcrypt()
	}

	requestTimeout := config.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	sessionManager := services.NewSessionManager(*sessionConfig, config.Sessions, cacheAdapter, logger)

	site := &Site{
		Registration:    services.NewRegistrationService(config.Identities, passwordHasher, logger),
		Sessions:        sessionManager,
		Catalog:         services.NewCatalogService(config.Games),
		SuccessRedirect: successRedirect,
		SessionMaxAge:   sessionConfig.MaxAge,
		RequestTimeout:  requestTimeout,
		Logger:          logger,
	}

	if err := config.HTTP.RegisterRoutes(site); err != nil {
		return nil, err
	}

	return &Mysite{Site: site, Sessions: sessionManager}, nil
}
