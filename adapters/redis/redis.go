// Package redis stores sessions in Redis. Keys carry the session expiry as
// their TTL, so Redis removes stale sessions by itself.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dcvalino/mysite/core"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "mysite:"

type SessionStore struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ core.SessionStorage = (*SessionStore)(nil)

// Dial connects to addr and checks the connection before returning
func Dial(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func NewSessionStore(client goredis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (r *SessionStore) sessionKey(tokenHash string) string {
	return r.prefix + "session:" + tokenHash
}

func (r *SessionStore) identityKey(identityID string) string {
	return r.prefix + "identity-sessions:" + identityID
}

// record is the stored form; core.Session hides TokenHash from JSON
type record struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	TokenHash  string    `json:"token_hash"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toRecord(s *core.Session) record {
	return record{
		ID: s.ID, IdentityID: s.IdentityID, Email: s.Email, TokenHash: s.TokenHash,
		IPAddress: s.IPAddress, UserAgent: s.UserAgent,
		ExpiresAt: s.ExpiresAt, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func (rec record) session() *core.Session {
	return &core.Session{
		ID: rec.ID, IdentityID: rec.IdentityID, Email: rec.Email, TokenHash: rec.TokenHash,
		IPAddress: rec.IPAddress, UserAgent: rec.UserAgent,
		ExpiresAt: rec.ExpiresAt, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt,
	}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
}

func (r *SessionStore) CreateSession(ctx context.Context, s *core.Session) error {
	if s.TokenHash == "" || s.IdentityID == "" {
		return fmt.Errorf("session: missing token hash or identity id")
	}

	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	// Sessions share one max age, so the newest session sets the index TTL
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.sessionKey(s.TokenHash), data, ttl)
	pipe.SAdd(ctx, r.identityKey(s.IdentityID), s.TokenHash)
	pipe.Expire(ctx, r.identityKey(s.IdentityID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *SessionStore) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	val, err := r.client.Get(ctx, r.sessionKey(tokenHash)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}

	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return rec.session(), nil
}

func (r *SessionStore) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	s, err := r.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.sessionKey(tokenHash))
	pipe.SRem(ctx, r.identityKey(s.IdentityID), tokenHash)
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *SessionStore) DeleteIdentitySessions(ctx context.Context, identityID string) (int, error) {
	hashes, err := r.client.SMembers(ctx, r.identityKey(identityID)).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	if len(hashes) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(hashes))
	for _, h := range hashes {
		keys = append(keys, r.sessionKey(h))
	}

	// Del reports only the keys that still existed
	deleted, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	if err := r.client.Del(ctx, r.identityKey(identityID)).Err(); err != nil {
		return 0, unavailable(err)
	}
	return int(deleted), nil
}

// DeleteExpiredSessions is a no-op: session keys expire through their TTL
func (r *SessionStore) DeleteExpiredSessions(context.Context) (int, error) {
	return 0, nil
}
