package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/dcvalino/mysite/pkg/crypto"
	"github.com/google/uuid"
)

type SessionManager struct {
	config  core.SessionConfig
	storage core.SessionStorage
	cache   core.Cache // optional, can be nil if caching is disabled
	logger  *slog.Logger
	now     func() time.Time
}

var _ core.SessionService = (*SessionManager)(nil)

func NewSessionManager(config core.SessionConfig, storage core.SessionStorage, cache core.Cache, logger *slog.Logger) *SessionManager {
	if config.MaxAge <= 0 {
		config = core.DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{config: config, storage: storage, cache: cache, logger: logger, now: time.Now}
}

// Create opens a session for a freshly registered identity. This is the
// consumer side of the registration success signal.
func (sm *SessionManager) Create(ctx context.Context, identity *core.Identity, ip, userAgent string) (*core.CreateSessionResult, error) {
	if identity == nil || identity.ID == "" || identity.Email == "" {
		return nil, core.ErrIdentityIncomplete
	}

	// Generate cryptographic material
	pair, err := crypto.GenerateHashedToken(crypto.DefaultTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := sm.now()
	session := &core.Session{
		ID:         uuid.NewString(),
		IdentityID: identity.ID,
		Email:      identity.Email,
		TokenHash:  pair.Hash,
		IPAddress:  ip,
		UserAgent:  userAgent,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(sm.config.MaxAge),
	}

	// Persist session
	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, storageError("failed to create session", err)
	}

	// Cache session if caching is enabled (cache is non-nil)
	if sm.cache != nil {
		// We don't fail the request if caching fails
		_ = sm.cache.Set(pair.Hash, session)
	}

	return &core.CreateSessionResult{Session: session, Token: pair.Token}, nil
}

func (sm *SessionManager) Verify(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	// Try cache first if caching is enabled
	if sm.cache != nil {
		if session, err := sm.cache.Get(tokenHash); err == nil {
			if sm.now().After(session.ExpiresAt) {
				_ = sm.cache.Delete(tokenHash)
				return nil, core.ErrSessionExpired
			}
			return session, nil
		}
		// Cache miss - fall through to storage
	}

	session, err := sm.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return nil, core.ErrSessionNotFound
		}
		return nil, storageError("failed to load session", err)
	}
	if session == nil {
		return nil, core.ErrSessionNotFound
	}

	if ok, err := crypto.VerifyToken(token, session.TokenHash); err != nil || !ok {
		return nil, core.ErrInvalidToken
	}

	if sm.now().After(session.ExpiresAt) {
		// Expired rows are purged in the background; removing this one early is best effort
		if err := sm.storage.DeleteSessionByHash(ctx, tokenHash); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
			sm.logger.WarnContext(ctx, "failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, core.ErrSessionExpired
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, session)
	}

	return session, nil
}

// Destroy ends the session behind token. Destroying an unknown session is not an error.
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return core.ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		_ = sm.cache.Delete(tokenHash)
	}

	if err := sm.storage.DeleteSessionByHash(ctx, tokenHash); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
		return storageError("failed to delete session", err)
	}

	return nil
}

func (sm *SessionManager) DestroyAllIdentitySessions(ctx context.Context, identityID string) (int, error) {
	if identityID == "" {
		return 0, core.ErrIdentityIncomplete
	}

	count, err := sm.storage.DeleteIdentitySessions(ctx, identityID)
	if err != nil {
		return 0, storageError("failed to delete identity sessions", err)
	}

	if sm.cache != nil {
		sm.cache.DeleteIdentity(identityID)
	}

	return count, nil
}

// PurgeExpired deletes sessions past their expiry and returns how many went away
func (sm *SessionManager) PurgeExpired(ctx context.Context) (int, error) {
	count, err := sm.storage.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, storageError("failed to purge expired sessions", err)
	}
	return count, nil
}

// RunJanitor purges expired sessions every interval until ctx is done
func (sm *SessionManager) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := sm.PurgeExpired(ctx)
			if err != nil {
				sm.logger.ErrorContext(ctx, "session purge failed", "error", err)
				continue
			}
			if count > 0 {
				sm.logger.InfoContext(ctx, "expired sessions purged", "count", count)
			}
			if c, ok := sm.cache.(core.CacheWithStats); ok {
				stats := c.Stats()
				sm.logger.DebugContext(ctx, "session cache",
					"size", stats.Size, "hits", stats.Hits, "misses", stats.Misses, "evictions", stats.Evictions)
			}
		}
	}
}
