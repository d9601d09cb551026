package domain

import (
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a lookup result stays visible.
const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	record   DomainRecord
	storedAt time.Time
}

// Cache is an in-process, time-bounded map from domain to DomainRecord.
// Entries expire a fixed TTL after insertion; reads never extend them.
// Expired entries are dropped when they are next accessed.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache; a non-positive ttl selects DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// CacheKey normalizes a domain the way the cache indexes it.
func CacheKey(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// Get returns a copy of the stored record when it has not expired.
func (c *Cache) Get(domain string) (DomainRecord, bool) {
	key := CacheKey(domain)

	c.mu.RLock()
	entry, ok := c.entries[key]
	now := c.now()
	c.mu.RUnlock()

	if !ok {
		return DomainRecord{}, false
	}
	if now.Sub(entry.storedAt) > c.ttl {
		c.evict(key, entry.storedAt)
		return DomainRecord{}, false
	}
	return entry.record.Clone(), true
}

// Set stores record under domain, replacing any previous entry.
func (c *Cache) Set(domain string, record DomainRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[CacheKey(domain)] = cacheEntry{record: record.Clone(), storedAt: c.now()}
}

// Len counts stored entries, including expired ones not yet evicted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// evict removes key unless a concurrent Set already replaced the expired entry.
func (c *Cache) evict(key string, storedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.entries[key]; ok && current.storedAt.Equal(storedAt) {
		delete(c.entries, key)
	}
}
