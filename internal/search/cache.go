package search

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// resultCache memoizes search results per (query, threshold, store
// generation). Including the generation in the key means a committed write
// to the store invalidates every prior entry without any explicit flush.
type resultCache struct {
	lru *lru.Cache[string, []Match]
}

func newResultCache(size int) (*resultCache, error) {
	c, err := lru.New[string, []Match](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{lru: c}, nil
}

func cacheKey(normQuery string, threshold float64, gen uint64) string {
	return fmt.Sprintf("%s|%.6f|%d", normQuery, threshold, gen)
}

func (c *resultCache) Get(normQuery string, threshold float64, gen uint64) ([]Match, bool) {
	return c.lru.Get(cacheKey(normQuery, threshold, gen))
}

func (c *resultCache) Put(normQuery string, threshold float64, gen uint64, matches []Match) {
	c.lru.Add(cacheKey(normQuery, threshold, gen), matches)
}
