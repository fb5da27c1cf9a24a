package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"
)

// Entry is a cached fingerprint result.
type Entry struct {
	// Fingerprint is the packed fingerprint bytes.
	Fingerprint []byte

	// Tokens is the number of tokens that entered shingling.
	Tokens int

	// Shingles is the number of shingles hashed.
	Shingles int

	// Width is the effective shingle width used, which can differ from
	// the requested width when a pipeline falls back to a narrower window.
	Width int
}

// item holds a cached entry with its creation timestamp.
type item struct {
	entry     *Entry
	createdAt time.Time
}

// Cache is a simple in-memory cache for fingerprint results.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*item
	maxEntries int
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict expired entries
// (older than 1 hour).
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*item),
		maxEntries: maxEntries,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the pipeline parameters and the input
// text. Callers fold any extraction variant (HTML mode, exclude selectors)
// into mode so distinct pipelines never share a key.
func Key(digest, mode string, width int, text string) string {
	h := sha256.New()
	h.Write([]byte(digest))
	h.Write([]byte("|"))
	h.Write([]byte(mode))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.Itoa(width)))
	h.Write([]byte("|"))
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached entry. Fingerprints are pure functions of their
// key material, so there is no per-request freshness check; the cleanup
// loop only bounds memory. Returns the entry and whether it was a hit.
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	it, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return it.entry, true
}

// Set stores an entry in the cache. If the cache is at capacity,
// a random entry is evicted to make room.
func (c *Cache) Set(key string, e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &item{
		entry:     e,
		createdAt: time.Now(),
	}
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, it := range c.store {
			if it.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
