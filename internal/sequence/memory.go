package sequence

import (
	"context"
	"sync"
	"time"
)

// MemoryGenerator keeps counters in memory. Used by tests and the demo
// seeder; counters reset when the scope (month or year) changes, matching
// the durable generator's behavior.
type MemoryGenerator struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryGenerator creates a generator with all counters at zero.
func NewMemoryGenerator() *MemoryGenerator {
	return &MemoryGenerator{counters: make(map[string]int64)}
}

func (g *MemoryGenerator) next(key, scope string) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := key + ":" + scope
	g.counters[k]++
	return g.counters[k]
}

func (g *MemoryGenerator) NextCollectionNumber(ctx context.Context, at time.Time) (string, error) {
	return FormatCollectionNumber(at, g.next(KeyCollection, collectionScope(at))), nil
}

func (g *MemoryGenerator) NextManifestNumber(ctx context.Context, at time.Time) (string, error) {
	return FormatManifestNumber(at, g.next(KeyManifest, yearScope(at))), nil
}

func (g *MemoryGenerator) NextNCRNumber(ctx context.Context, at time.Time) (string, error) {
	return FormatNCRNumber(at, g.next(KeyNCR, yearScope(at))), nil
}
