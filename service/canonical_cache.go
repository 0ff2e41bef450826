package service

import (
	"context"
	"runtime"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/analyzer"
	"golang.org/x/sync/errgroup"
)

// CanonicalEntry is the cached pipeline result for one file. Exactly one of
// Form and Err is set.
type CanonicalEntry struct {
	Form *analyzer.CanonicalForm
	Err  error
}

// CanonicalCache stores canonical forms shared by every pair of a batch.
// After Seal() is called the cache is read-only and safe for concurrent
// access without locks.
type CanonicalCache struct {
	entries map[string]*CanonicalEntry
	sealed  bool
}

// NewCanonicalCache creates a new empty cache
func NewCanonicalCache() *CanonicalCache {
	return &CanonicalCache{
		entries: make(map[string]*CanonicalEntry),
	}
}

// Put stores an entry. It is ignored once the cache is sealed.
func (c *CanonicalCache) Put(path string, entry *CanonicalEntry) {
	if c.sealed {
		return
	}
	c.entries[path] = entry
}

// Seal marks the cache as read-only
func (c *CanonicalCache) Seal() {
	c.sealed = true
}

// Get retrieves a cached entry. Returns (entry, true) on hit.
func (c *CanonicalCache) Get(path string) (*CanonicalEntry, bool) {
	e, ok := c.entries[path]
	return e, ok
}

// Len returns the number of entries in the cache
func (c *CanonicalCache) Len() int {
	return len(c.entries)
}

// SourceReader reads a source file with universal newlines
type SourceReader interface {
	ReadSource(path string) ([]byte, error)
}

// PopulateCanonicalCache canonicalizes every distinct path in parallel and
// returns a sealed cache. Per-file failures are stored in the entry; the
// returned error is only the context error.
func PopulateCanonicalCache(ctx context.Context, detector *analyzer.PlagiarismDetector, reader SourceReader, paths []string, concurrency int) (*CanonicalCache, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	unique := uniquePaths(paths)
	results := make([]*CanonicalEntry, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range unique {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = canonicalizeFile(gctx, detector, reader, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Single-threaded fill, no lock needed
	cache := NewCanonicalCache()
	for i, path := range unique {
		cache.Put(path, results[i])
	}
	cache.Seal()

	return cache, nil
}

// canonicalizeFile runs the whole per-file pipeline
func canonicalizeFile(ctx context.Context, detector *analyzer.PlagiarismDetector, reader SourceReader, path string) *CanonicalEntry {
	source, err := reader.ReadSource(path)
	if err != nil {
		return &CanonicalEntry{Err: err}
	}

	form, err := detector.Analyze(ctx, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &CanonicalEntry{Err: ctxErr}
		}
		return &CanonicalEntry{Err: domain.NewParseError(path, err)}
	}
	return &CanonicalEntry{Form: form}
}

func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	unique := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
	}
	return unique
}
