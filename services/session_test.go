package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/dcvalino/mysite/pkg/cache"
	"github.com/dcvalino/mysite/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(storage core.SessionStorage, c core.Cache) *SessionManager {
	return NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, c, discardLogger())
}

func testIdentity() *core.Identity {
	return &core.Identity{ID: "identity-1", Email: "a@b.com"}
}

// Requirement: Create stores a session bound to the identity and returns the raw token once.
func TestSessionManager_Create(t *testing.T) {
	tests := []struct {
		name      string
		identity  *core.Identity
		ip        string
		userAgent string
		wantErr   error
	}{
		{name: "creates session successfully", identity: testIdentity(), ip: "192.168.1.1", userAgent: "Mozilla/5.0"},
		{name: "empty IP and user agent are allowed", identity: testIdentity()},
		{name: "nil identity", identity: nil, wantErr: core.ErrIdentityIncomplete},
		{name: "identity without id", identity: &core.Identity{Email: "a@b.com"}, wantErr: core.ErrIdentityIncomplete},
		{name: "identity without email", identity: &core.Identity{ID: "identity-1"}, wantErr: core.ErrIdentityIncomplete},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeSessionStorage()
			manager := newTestSessionManager(storage, nil)

			// Act
			result, err := manager.Create(context.Background(), test.identity, test.ip, test.userAgent)

			// Assert
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				assert.Zero(t, storage.Len())
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result.Session)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, crypto.HashToken(result.Token), result.Session.TokenHash)
			assert.NotEqual(t, result.Token, result.Session.TokenHash, "raw token must not be stored")
			assert.Equal(t, test.identity.ID, result.Session.IdentityID)
			assert.Equal(t, test.identity.Email, result.Session.Email)
			assert.Equal(t, test.ip, result.Session.IPAddress)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.Session.ExpiresAt, time.Minute)
			assert.Equal(t, 1, storage.Len())
		})
	}
}

func TestSessionManager_CreateStorageFailure(t *testing.T) {
	storage := NewFakeSessionStorage()
	storage.createErr = errors.New("disk full")
	manager := newTestSessionManager(storage, nil)

	_, err := manager.Create(context.Background(), testIdentity(), "", "")

	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

// Requirement: Verify accepts a live token and rejects unknown, empty or expired ones.
func TestSessionManager_Verify(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T, m *SessionManager) string
		advance time.Duration
		wantErr error
	}{
		{
			name: "valid token",
			token: func(t *testing.T, m *SessionManager) string {
				res, err := m.Create(context.Background(), testIdentity(), "", "")
				require.NoError(t, err)
				return res.Token
			},
		},
		{
			name:    "empty token",
			token:   func(*testing.T, *SessionManager) string { return "" },
			wantErr: core.ErrInvalidToken,
		},
		{
			name:    "unknown token",
			token:   func(*testing.T, *SessionManager) string { return "not-a-real-token" },
			wantErr: core.ErrSessionNotFound,
		},
		{
			name: "expired token",
			token: func(t *testing.T, m *SessionManager) string {
				res, err := m.Create(context.Background(), testIdentity(), "", "")
				require.NoError(t, err)
				return res.Token
			},
			advance: 25 * time.Hour,
			wantErr: core.ErrSessionExpired,
		},
	}

	for _, test := range tests {
		for _, withCache := range []bool{false, true} {
			name := test.name
			if withCache {
				name += " (cached)"
			}
			t.Run(name, func(t *testing.T) {
				// Arrange
				storage := NewFakeSessionStorage()
				var c core.Cache
				if withCache {
					c = cache.NewInMemoryCache(core.CacheConfig{TTL: 48 * time.Hour, MaxSize: 10})
				}
				manager := newTestSessionManager(storage, c)
				clock := time.Now()
				manager.now = func() time.Time { return clock }
				token := test.token(t, manager)
				clock = clock.Add(test.advance)

				// Act
				session, err := manager.Verify(context.Background(), token)

				// Assert
				if test.wantErr != nil {
					require.ErrorIs(t, err, test.wantErr)
					assert.Nil(t, session)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, "a@b.com", session.Email)
			})
		}
	}
}

func TestSessionManager_VerifyUsesCache(t *testing.T) {
	storage := NewFakeSessionStorage()
	c := cache.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	manager := newTestSessionManager(storage, c)
	res, err := manager.Create(context.Background(), testIdentity(), "", "")
	require.NoError(t, err)

	// storage failing proves the cache answered
	storage.getErr = errors.New("unreachable")
	session, err := manager.Verify(context.Background(), res.Token)

	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, session.ID)
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestSessionManager_VerifyStorageFailure(t *testing.T) {
	storage := NewFakeSessionStorage()
	storage.getErr = errors.New("unreachable")
	manager := newTestSessionManager(storage, nil)

	_, err := manager.Verify(context.Background(), "some-token")

	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

// Requirement: Destroy removes the session from storage and cache; a second Destroy is harmless.
func TestSessionManager_Destroy(t *testing.T) {
	// Arrange
	storage := NewFakeSessionStorage()
	c := cache.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	manager := newTestSessionManager(storage, c)
	res, err := manager.Create(context.Background(), testIdentity(), "", "")
	require.NoError(t, err)

	// Act
	require.NoError(t, manager.Destroy(context.Background(), res.Token))
	require.NoError(t, manager.Destroy(context.Background(), res.Token))

	// Assert
	assert.Zero(t, storage.Len())
	assert.Zero(t, c.Len())
	_, err = manager.Verify(context.Background(), res.Token)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.ErrorIs(t, manager.Destroy(context.Background(), ""), core.ErrInvalidToken)
}

func TestSessionManager_DestroyAllIdentitySessions(t *testing.T) {
	storage := NewFakeSessionStorage()
	manager := newTestSessionManager(storage, nil)
	for i := 0; i < 3; i++ {
		_, err := manager.Create(context.Background(), testIdentity(), "", "")
		require.NoError(t, err)
	}
	_, err := manager.Create(context.Background(), &core.Identity{ID: "other", Email: "c@d.com"}, "", "")
	require.NoError(t, err)

	count, err := manager.DestroyAllIdentitySessions(context.Background(), "identity-1")

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, storage.Len())
}

// Requirement: revoked sessions are not served from the cache afterwards.
func TestSessionManager_DestroyAllIdentitySessionsEvictsCache(t *testing.T) {
	storage := NewFakeSessionStorage()
	c := cache.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	manager := newTestSessionManager(storage, c)
	mine, err := manager.Create(context.Background(), testIdentity(), "", "")
	require.NoError(t, err)
	theirs, err := manager.Create(context.Background(), &core.Identity{ID: "other", Email: "c@d.com"}, "", "")
	require.NoError(t, err)

	_, err = manager.DestroyAllIdentitySessions(context.Background(), "identity-1")
	require.NoError(t, err)

	_, err = manager.Verify(context.Background(), mine.Token)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = manager.Verify(context.Background(), theirs.Token)
	assert.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestSessionManager_PurgeExpired(t *testing.T) {
	// Arrange
	storage := NewFakeSessionStorage()
	manager := newTestSessionManager(storage, nil)
	clock := time.Now()
	manager.now = func() time.Time { return clock }
	_, err := manager.Create(context.Background(), testIdentity(), "", "")
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	_, err = manager.Create(context.Background(), testIdentity(), "", "")
	require.NoError(t, err)

	// Act: only the first session is past its expiry
	storage.now = func() time.Time { return clock.Add(23*time.Hour + time.Minute) }
	count, err := manager.PurgeExpired(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, storage.Len())
}

func TestSessionManager_RunJanitorStopsOnCancel(t *testing.T) {
	storage := NewFakeSessionStorage()
	manager := newTestSessionManager(storage, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		manager.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
