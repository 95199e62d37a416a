// Package memory keeps every store in process memory. It backs tests and
// the "memory" driver; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dcvalino/mysite/core"
)

type Adapter struct {
	mu         sync.RWMutex
	identities map[string]*core.Identity // keyed by lower-cased email
	sessions   map[string]*core.Session  // keyed by token hash
	games      map[int64]*core.Game
	comments   map[int64][]core.Comment // keyed by game id
	nextGameID int64
	nextCommID int64
	now        func() time.Time
}

var _ core.Store = (*Adapter)(nil)

func New() *Adapter {
	return &Adapter{
		identities: make(map[string]*core.Identity),
		sessions:   make(map[string]*core.Session),
		games:      make(map[int64]*core.Game),
		comments:   make(map[int64][]core.Comment),
		now:        time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

func (a *Adapter) FindByEmail(_ context.Context, email string) (*core.Identity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	identity, ok := a.identities[emailKey(email)]
	if !ok {
		return nil, nil
	}
	cp := *identity
	return &cp, nil
}

// Insert checks and writes under one lock, the in-memory unique constraint
func (a *Adapter) Insert(_ context.Context, identity *core.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := emailKey(identity.Email)
	if _, exists := a.identities[key]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateIdentity, identity.Email)
	}
	cp := *identity
	a.identities[key] = &cp
	return nil
}

func (a *Adapter) Count(_ context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.identities), nil
}

func (a *Adapter) CreateSession(_ context.Context, session *core.Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *session
	a.sessions[session.TokenHash] = &cp
	return nil
}

func (a *Adapter) GetSessionByHash(_ context.Context, tokenHash string) (*core.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s, ok := a.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (a *Adapter) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(a.sessions, tokenHash)
	return nil
}

func (a *Adapter) DeleteIdentitySessions(_ context.Context, identityID string) (int, error) {
	return a.deleteSessionsWhere(func(s *core.Session) bool { return s.IdentityID == identityID }), nil
}

func (a *Adapter) DeleteExpiredSessions(_ context.Context) (int, error) {
	now := a.now()
	return a.deleteSessionsWhere(func(s *core.Session) bool { return now.After(s.ExpiresAt) }), nil
}

func (a *Adapter) deleteSessionsWhere(match func(*core.Session) bool) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for hash, s := range a.sessions {
		if match(s) {
			delete(a.sessions, hash)
			count++
		}
	}
	return count
}

func (a *Adapter) ListGames(_ context.Context) ([]*core.Game, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	games := make([]*core.Game, 0, len(a.games))
	for _, g := range a.games {
		cp := *g
		games = append(games, &cp)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (a *Adapter) GetGame(_ context.Context, id int64) (*core.Game, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	g, ok := a.games[id]
	if !ok {
		return nil, core.ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

// SeedGames adds games with fresh IDs when the catalog is empty
func (a *Adapter) SeedGames(_ context.Context, games []core.Game) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.games) > 0 {
		return 0, nil
	}
	for _, g := range games {
		a.nextGameID++
		g.ID = a.nextGameID
		for _, c := range g.Comments {
			a.nextCommID++
			a.comments[g.ID] = append(a.comments[g.ID], core.Comment{ID: a.nextCommID, GameID: g.ID, Text: c.Text})
		}
		g.Comments = nil
		a.games[g.ID] = &g
	}
	return len(games), nil
}

func (a *Adapter) ListComments(_ context.Context, gameID int64) ([]*core.Comment, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stored := a.comments[gameID]
	comments := make([]*core.Comment, 0, len(stored))
	for _, c := range stored {
		cp := c
		comments = append(comments, &cp)
	}
	return comments, nil
}
