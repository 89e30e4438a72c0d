// Package cache provides the per-principal TTL data cache and the bounded
// per-session conversation history.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/hrkit/chartbot/pkg/models"
)

// DataKey identifies one cached fetch result. The principal id is always
// part of the key, and the tenant id when multi-tenant, so entries can never
// be shared across principals or tenants.
type DataKey struct {
	PrincipalID int64
	QueryType   models.QueryType
	TenantID    string
}

func (k DataKey) String() string {
	return fmt.Sprintf("%d/%s/%s", k.PrincipalID, k.QueryType, k.TenantID)
}

type dataEntry struct {
	payload   any
	expiresAt time.Time
}

// DataCache is a thread-safe in-memory cache with per-entry TTL.
// Expired entries are cleaned up lazily on Get; there is no background
// cleanup goroutine.
// Last-writer-wins per key; there are no cross-key transactions.
type DataCache struct {
	mu      sync.RWMutex
	entries map[DataKey]dataEntry
	now     func() time.Time
}

// NewDataCache creates an empty data cache.
func NewDataCache() *DataCache {
	return &DataCache{
		entries: make(map[DataKey]dataEntry),
		now:     time.Now,
	}
}

// Get returns the cached payload if present and not expired.
func (c *DataCache) Get(key DataKey) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		// Expired. Re-check under the write lock before deleting: a
		// concurrent Put may have replaced the entry with a fresh one.
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && c.now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.payload, true
}

// Put stores a payload with the given TTL.
func (c *DataCache) Put(key DataKey, payload any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = dataEntry{
		payload:   payload,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}
