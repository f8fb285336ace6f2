package search

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/store"
)

// Options tunes an Engine.
type Options struct {
	// Extensions recognized by the normalizer when stripping file names.
	Extensions []string
	// Workers is the scoring parallelism. Zero means runtime.NumCPU().
	Workers int
	// CacheSize is the number of query results kept in the LRU cache.
	// Zero disables caching.
	CacheSize int
}

// Engine scores indexed file names against fuzzy queries. It is safe for
// concurrent use; every search works against a point-in-time snapshot of
// the store.
type Engine struct {
	st      store.IndexStore
	norm    *Normalizer
	workers int
	cache   *resultCache
}

// NewEngine builds an Engine over the given store.
func NewEngine(st store.IndexStore, opts Options) (*Engine, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var cache *resultCache
	if opts.CacheSize > 0 {
		var err error
		cache, err = newResultCache(opts.CacheSize)
		if err != nil {
			return nil, seekerr.Wrap(seekerr.ErrCodeInternal, err)
		}
	}
	return &Engine{
		st:      st,
		norm:    NewNormalizer(opts.Extensions),
		workers: workers,
		cache:   cache,
	}, nil
}

// Search returns every indexed file whose name scores at or above threshold
// against query, ordered by score descending with normalized name as the
// tiebreak. The returned slice is shared with the cache and must not be
// mutated by callers.
func (e *Engine) Search(ctx context.Context, query string, threshold float64) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, seekerr.New(seekerr.ErrCodeEmptyQuery, "search query is empty", nil)
	}
	if threshold < MinThreshold || threshold > MaxThreshold {
		return nil, seekerr.New(seekerr.ErrCodeThresholdRange, "threshold out of range", nil).
			WithDetail("min", "0.5").
			WithDetail("max", "1.0")
	}
	normQuery := e.norm.Normalize(query)
	if normQuery == "" {
		return nil, seekerr.New(seekerr.ErrCodeEmptyQuery, "search query contains no matchable characters", nil)
	}

	gen := e.st.Generation()
	if e.cache != nil {
		if matches, ok := e.cache.Get(normQuery, threshold, gen); ok {
			return matches, nil
		}
	}

	files, err := e.st.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	matches, err := e.scoreAll(ctx, normQuery, threshold, files)
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].NormalizedName != matches[j].NormalizedName {
			return matches[i].NormalizedName < matches[j].NormalizedName
		}
		return matches[i].File.Path < matches[j].File.Path
	})

	slog.Debug("search_complete",
		"query", normQuery,
		"threshold", threshold,
		"candidates", len(files),
		"matches", len(matches),
		"duration_ms", time.Since(start).Milliseconds())

	// A write may have landed between Generation() and ListFiles; only
	// cache when the snapshot provably belongs to gen.
	if e.cache != nil && e.st.Generation() == gen {
		e.cache.Put(normQuery, threshold, gen, matches)
	}
	return matches, nil
}

// scoreAll partitions the candidate list across workers and scores each
// partition independently.
func (e *Engine) scoreAll(ctx context.Context, normQuery string, threshold float64, files []store.IndexedFile) ([]Match, error) {
	if len(files) == 0 {
		return []Match{}, nil
	}

	workers := e.workers
	if workers > len(files) {
		workers = len(files)
	}
	parts := make([][]Match, workers)
	chunk := (len(files) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > len(files) {
			hi = len(files)
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			out := make([]Match, 0, hi-lo)
			for _, f := range files[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				normName := e.norm.Normalize(f.Name)
				score := scoreNormalized(normQuery, normName)
				if score >= threshold {
					out = append(out, Match{File: f, Score: score, NormalizedName: normName})
				}
			}
			parts[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	matches := make([]Match, 0, total)
	for _, p := range parts {
		matches = append(matches, p...)
	}
	return matches, nil
}
