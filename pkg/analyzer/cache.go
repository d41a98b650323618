package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

// FactsCache memoizes parse results by build file content. Entries are
// shared between analysis passes and must not be modified.
type FactsCache struct {
	entries *lru.Cache[string, *buildfile.BuildFacts]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewFactsCache creates a cache holding up to size parse results.
// A size of zero or less disables caching.
func NewFactsCache(size int) (*FactsCache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, err := lru.New[string, *buildfile.BuildFacts](size)
	if err != nil {
		return nil, err
	}
	return &FactsCache{entries: entries}, nil
}

// Parse returns cached facts for text or parses and stores them.
// A nil cache parses every time.
func (c *FactsCache) Parse(text string, d buildfile.Dialect) *buildfile.BuildFacts {
	if c == nil {
		return buildfile.Parse(text, d)
	}

	key := cacheKey(text, d)
	if facts, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return facts
	}

	c.misses.Add(1)
	facts := buildfile.Parse(text, d)
	c.entries.Add(key, facts)
	return facts
}

// Stats returns hit and miss counts
func (c *FactsCache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached entries
func (c *FactsCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func cacheKey(text string, d buildfile.Dialect) string {
	sum := sha256.Sum256([]byte(d.String() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
