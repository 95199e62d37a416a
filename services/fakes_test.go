package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/dcvalino/mysite/pkg/crypto"
)

// FakeIdentityStore is a test-only core.IdentityStore backed by a map.
// Error fields inject failures; afterFind runs between lookup and insert.
type FakeIdentityStore struct {
	mu         sync.Mutex
	identities map[string]*core.Identity
	findErr    error
	insertErr  error

	findCalls   int
	insertCalls int

	afterFind func()
}

func NewFakeIdentityStore() *FakeIdentityStore {
	return &FakeIdentityStore{identities: make(map[string]*core.Identity)}
}

func (f *FakeIdentityStore) FindByEmail(_ context.Context, email string) (*core.Identity, error) {
	f.mu.Lock()
	f.findCalls++
	if f.findErr != nil {
		f.mu.Unlock()
		return nil, f.findErr
	}
	identity := f.identities[strings.ToLower(email)]
	hook := f.afterFind
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return identity, nil
}

func (f *FakeIdentityStore) Insert(_ context.Context, identity *core.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	key := strings.ToLower(identity.Email)
	if _, exists := f.identities[key]; exists {
		return core.ErrDuplicateIdentity
	}
	f.identities[key] = identity
	return nil
}

func (f *FakeIdentityStore) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.identities), nil
}

func (f *FakeIdentityStore) calls() (find, insert int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls, f.insertCalls
}

// FakeHasher records calls and can be told to fail
type FakeHasher struct {
	mu      sync.Mutex
	calls   int
	hashErr error
}

func (h *FakeHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "fake$" + password, nil
}

func (h *FakeHasher) Verify(password, hash string) (bool, error) {
	return hash == "fake$"+password, nil
}

func (h *FakeHasher) Algorithm() string { return "fake" }

func (h *FakeHasher) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

var _ crypto.PasswordHandler = (*FakeHasher)(nil)

// FakeSessionStorage is a test-only core.SessionStorage keyed by token hash
type FakeSessionStorage struct {
	mu        sync.Mutex
	sessions  map[string]*core.Session
	createErr error
	getErr    error
	deleteErr error
	now       func() time.Time
}

func NewFakeSessionStorage() *FakeSessionStorage {
	return &FakeSessionStorage{sessions: make(map[string]*core.Session), now: time.Now}
}

func (f *FakeSessionStorage) CreateSession(_ context.Context, s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeSessionStorage) GetSessionByHash(_ context.Context, tokenHash string) (*core.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

func (f *FakeSessionStorage) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeSessionStorage) DeleteIdentitySessions(_ context.Context, identityID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	count := 0
	for hash, s := range f.sessions {
		if s.IdentityID == identityID {
			delete(f.sessions, hash)
			count++
		}
	}
	return count, nil
}

func (f *FakeSessionStorage) DeleteExpiredSessions(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	now := f.now()
	count := 0
	for hash, s := range f.sessions {
		if now.After(s.ExpiresAt) {
			delete(f.sessions, hash)
			count++
		}
	}
	return count, nil
}

func (f *FakeSessionStorage) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// FakeGameStore is a test-only core.GameStore
type FakeGameStore struct {
	games       []*core.Game
	comments    map[int64][]*core.Comment
	listErr     error
	getErr      error
	commentsErr error
}

func (f *FakeGameStore) ListGames(_ context.Context) ([]*core.Game, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.games, nil
}

func (f *FakeGameStore) GetGame(_ context.Context, id int64) (*core.Game, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, g := range f.games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, core.ErrGameNotFound
}

func (f *FakeGameStore) ListComments(_ context.Context, gameID int64) ([]*core.Comment, error) {
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments[gameID], nil
}
