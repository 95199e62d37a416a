package cache

import (
	"sync"
	"time"

	"github.com/dcvalino/mysite/core"
)

var _ core.CacheWithStats = (*InMemoryCache)(nil)

// InMemoryCache keeps recently verified sessions keyed by token hash so the
// session gate does not hit storage on every protected page view. A second
// index by identity lets one identity's sessions be dropped without a scan.
type InMemoryCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	byIdentity map[string]map[string]struct{}
	ttl        time.Duration
	maxSize    int
	now        func() time.Time
	stats      core.CacheStats
}

type entry struct {
	session  *core.Session
	storedAt time.Time
}

// stale reports whether e is past the cache TTL or the session's own expiry
func (e entry) stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.storedAt) > ttl || now.After(e.session.ExpiresAt)
}

func NewInMemoryCache(c core.CacheConfig) *InMemoryCache {
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 500
	}

	return &InMemoryCache{
		entries:    make(map[string]entry),
		byIdentity: make(map[string]map[string]struct{}),
		ttl:        c.TTL,
		maxSize:    c.MaxSize,
		now:        time.Now,
	}
}

// Get returns the cached session, or ErrCacheNotFound when the entry is
// missing or stale. Stale entries are dropped on the way out.
func (c *InMemoryCache) Get(tokenHash string) (*core.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[tokenHash]
	if !ok {
		c.stats.Misses++
		return nil, core.ErrCacheNotFound
	}
	if e.stale(c.now(), c.ttl) {
		c.remove(tokenHash)
		c.stats.Deletes++
		c.stats.Misses++
		return nil, core.ErrCacheNotFound
	}

	c.stats.Hits++
	return e.session, nil
}

// Set stores session under tokenHash. When the cache is full, stale entries
// go first; if none are stale the oldest entry is evicted.
func (c *InMemoryCache) Set(tokenHash string, session *core.Session) error {
	if session == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[tokenHash]; ok {
		c.unindex(tokenHash, old.session.IdentityID)
	} else if len(c.entries) >= c.maxSize {
		c.makeRoom()
	}

	c.entries[tokenHash] = entry{session: session, storedAt: c.now()}
	hashes, ok := c.byIdentity[session.IdentityID]
	if !ok {
		hashes = make(map[string]struct{})
		c.byIdentity[session.IdentityID] = hashes
	}
	hashes[tokenHash] = struct{}{}

	c.stats.Sets++
	return nil
}

func (c *InMemoryCache) Delete(tokenHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[tokenHash]; ok {
		c.remove(tokenHash)
		c.stats.Deletes++
	}
	return nil
}

func (c *InMemoryCache) DeleteIdentity(identityID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	hashes := c.byIdentity[identityID]
	n := len(hashes)
	for hash := range hashes {
		c.remove(hash)
	}
	c.stats.Deletes += int64(n)
	return n
}

func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *InMemoryCache) Stats() core.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.entries)
	stats.TTL = c.ttl
	return stats
}

// makeRoom must be called with mu held
func (c *InMemoryCache) makeRoom() {
	now := c.now()
	var (
		oldestHash string
		oldestAt   time.Time
		dropped    bool
	)
	for hash, e := range c.entries {
		if e.stale(now, c.ttl) {
			c.remove(hash)
			c.stats.Deletes++
			dropped = true
			continue
		}
		if oldestHash == "" || e.storedAt.Before(oldestAt) {
			oldestHash, oldestAt = hash, e.storedAt
		}
	}
	if dropped || oldestHash == "" {
		return
	}

	c.remove(oldestHash)
	c.stats.Evictions++
}

// remove must be called with mu held and tokenHash present
func (c *InMemoryCache) remove(tokenHash string) {
	e := c.entries[tokenHash]
	delete(c.entries, tokenHash)
	c.unindex(tokenHash, e.session.IdentityID)
}

func (c *InMemoryCache) unindex(tokenHash, identityID string) {
	hashes := c.byIdentity[identityID]
	delete(hashes, tokenHash)
	if len(hashes) == 0 {
		delete(c.byIdentity, identityID)
	}
}
