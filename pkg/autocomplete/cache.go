package autocomplete

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Cached memoizes TopMatches results of the wrapped index, evicting the
// least recently used entry once maxEntries is reached. Concurrent misses on
// the same query share one lookup. TopMatch and WeightOf pass straight
// through. Add clears the cache, since any entry may change.
type Cached struct {
	inner      Autocompletor
	entries    *lru.Cache[cacheKey, []string]
	group      singleflight.Group
	maxEntries int
	hits       int64
	misses     int64
	generation uint64 // bumped by Purge, results computed before it are dropped
	mu         sync.Mutex
}

type cacheKey struct {
	prefix string
	k      int
}

func (k cacheKey) String() string {
	return strconv.Itoa(k.k) + ":" + k.prefix
}

// NewCached wraps inner with a cache of at most maxEntries results.
func NewCached(inner Autocompletor, maxEntries int) *Cached {
	if maxEntries < 1 {
		maxEntries = 1
	}
	// size is positive, so construction cannot fail
	entries, _ := lru.NewWithEvict(maxEntries, func(key cacheKey, _ []string) {
		log.Debugf("Evicted '%s' (k=%d) from query cache", key.prefix, key.k)
	})
	return &Cached{
		inner:      inner,
		entries:    entries,
		maxEntries: maxEntries,
	}
}

// TopMatches serves from the cache when possible. Errors are never cached,
// and a negative k is rejected without counting as a hit or a miss.
func (c *Cached) TopMatches(prefix string, k int) ([]string, error) {
	if err := checkLimit(k); err != nil {
		return nil, err
	}
	key := cacheKey{prefix: prefix, k: k}

	c.mu.Lock()
	if cached, ok := c.entries.Get(key); ok {
		c.hits++
		c.mu.Unlock()
		return slices.Clone(cached), nil
	}
	c.misses++
	gen := c.generation
	c.mu.Unlock()

	// a flight started before Purge must not serve callers that arrive after it
	flight := strconv.FormatUint(gen, 10) + "/" + key.String()
	v, err, _ := c.group.Do(flight, func() (any, error) {
		result, err := c.inner.TopMatches(prefix, k)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if gen == c.generation {
			c.entries.Add(key, slices.Clone(result))
		}
		c.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	// callers sharing a flight must not share a backing array
	return slices.Clone(v.([]string)), nil
}

// TopMatch delegates to the wrapped index.
func (c *Cached) TopMatch(prefix string) (string, error) {
	return c.inner.TopMatch(prefix)
}

// WeightOf delegates to the wrapped index.
func (c *Cached) WeightOf(word string) (float64, error) {
	return c.inner.WeightOf(word)
}

// Add forwards to the wrapped index when it is an Updater and drops every
// cached result.
func (c *Cached) Add(word string, weight float64) error {
	u, ok := c.inner.(Updater)
	if !ok {
		return fmt.Errorf("add %q: %w", word, errors.ErrUnsupported)
	}
	if err := u.Add(word, weight); err != nil {
		return err
	}
	c.Purge()
	return nil
}

// Len reports the wrapped index size, or -1 when it does not expose one.
func (c *Cached) Len() int {
	if s, ok := c.inner.(Sizer); ok {
		return s.Len()
	}
	return -1
}

// Purge drops every cached result.
func (c *Cached) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries.Purge()
	log.Debugf("Purged query cache")
}

// Stats returns cache counters.
func (c *Cached) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cacheEntries": c.entries.Len(),
		"maxEntries":   c.maxEntries,
		"cacheHits":    int(c.hits),
		"cacheMisses":  int(c.misses),
	}
}
