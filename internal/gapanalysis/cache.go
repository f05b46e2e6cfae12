package gapanalysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"careergap/internal/records"
)

const maxCacheEntries = 1024

type cacheEntry struct {
	outcome Outcome
	expires time.Time
}

// outcomeCache holds successful outcomes keyed by a fingerprint of the
// inputs and collapses concurrent identical requests.
type outcomeCache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newOutcomeCache(ttl time.Duration, now func() time.Time) *outcomeCache {
	if now == nil {
		now = time.Now
	}
	return &outcomeCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *outcomeCache) get(key string) (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Outcome{}, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return Outcome{}, false
	}
	return e.outcome, true
}

func (c *outcomeCache) put(key string, o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if len(c.entries) >= maxCacheEntries {
		for k, e := range c.entries {
			if !now.Before(e.expires) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= maxCacheEntries {
			// Full of live entries: drop an arbitrary one.
			for k := range c.entries {
				delete(c.entries, k)
				break
			}
		}
	}
	c.entries[key] = cacheEntry{outcome: o, expires: now.Add(c.ttl)}
}

// Fingerprint hashes the canonical JSON of (resume, job). encoding/json sorts
// map keys, so equal records hash equally.
func Fingerprint(resume, job records.Record) string {
	data, err := json.Marshal([2]records.Record{resume, job})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
