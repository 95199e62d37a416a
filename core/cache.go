package core

import "time"

// Cache holds recently verified sessions keyed by token hash
type Cache interface {
	Get(tokenHash string) (*Session, error)
	Set(tokenHash string, session *Session) error
	Delete(tokenHash string) error

	// DeleteIdentity drops every cached session of one identity and reports how many
	DeleteIdentity(identityID string) int
}

// CacheWithStats is a Cache that also reports counters
type CacheWithStats interface {
	Cache
	Stats() CacheStats
}

type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats are diagnostic counters, logged by the session janitor
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}
