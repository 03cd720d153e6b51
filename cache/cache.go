// Copyright 2025 Vyasa Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"sync"
	"time"

	"github.com/vyasa-labs/gitasage/core"
)

const (
	// DefaultTTL is how long a cached answer stays fresh.
	DefaultTTL = 5 * time.Minute

	// DefaultCapacity bounds the number of live entries.
	DefaultCapacity = 100
)

type entry struct {
	answer   core.Answer
	storedAt time.Time
}

// ResponseCache is a bounded TTL cache of complete answers keyed by the
// content hash of the normalized query. Expired entries are purged on read,
// and inserts beyond capacity evict the oldest entry.
type ResponseCache struct {
	mu       sync.Mutex
	entries  map[core.ID]entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *ResponseCache) {
		c.ttl = ttl
	}
}

// WithCapacity overrides the maximum number of entries.
func WithCapacity(capacity int) Option {
	return func(c *ResponseCache) {
		c.capacity = capacity
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) {
		c.now = now
	}
}

// NewResponseCache creates a ResponseCache with the default TTL and capacity.
func NewResponseCache(opts ...Option) *ResponseCache {
	c := &ResponseCache{
		entries:  make(map[core.ID]entry),
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the cache key from a normalized query.
func Key(normalized string) core.ID {
	return core.IDFromContent(normalized)
}

// Get returns the cached answer for a normalized query. An entry older than
// the TTL is removed and reported as a miss.
func (c *ResponseCache) Get(normalized string) (core.Answer, bool) {
	key := Key(normalized)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return core.Answer{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return core.Answer{}, false
	}
	return e.answer, true
}

// Put stores an answer under the normalized query. Overwriting refreshes the
// entry's age. When the cache is full the oldest entry is evicted first;
// entries of equal age evict in key order so the outcome is deterministic.
func (c *ResponseCache) Put(normalized string, answer core.Answer) {
	key := Key(normalized)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{answer: answer, storedAt: c.now()}
}

// Len reports the number of entries currently held, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResponseCache) evictOldestLocked() {
	var victim core.ID
	var victimAt time.Time
	first := true
	for key, e := range c.entries {
		older := e.storedAt.Before(victimAt)
		tie := e.storedAt.Equal(victimAt) && key < victim
		if first || older || tie {
			victim = key
			victimAt = e.storedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, victim)
	}
}
