package sample

import (
	"context"
	"log/slog"
	"sync"
)

// Cache holds one batch until it is regenerated.
type Cache struct {
	mu          sync.Mutex
	batch       *Batch
	size        int
	seed        uint64
	concurrency int
	builds      int
}

// NewCache returns an empty cache. Seed zero draws a new seed on every build.
func NewCache(size int, seed uint64, concurrency int) *Cache {
	if size <= 0 {
		size = SizeDefault
	}
	return &Cache{
		size:        size,
		seed:        seed,
		concurrency: concurrency,
	}
}

// Get returns the cached batch, building it on first use.
func (c *Cache) Get(ctx context.Context) (*Batch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.batch != nil {
		return c.batch, nil
	}
	return c.build(ctx)
}

// Regenerate discards the cached batch and builds a new one.
func (c *Cache) Regenerate(ctx context.Context) (*Batch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.batch = nil
	return c.build(ctx)
}

// Builds returns how many batches the cache has built.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

func (c *Cache) build(ctx context.Context) (*Batch, error) {
	// a fixed seed still yields a fresh batch on regenerate
	seed := c.seed
	if seed != 0 {
		seed += uint64(c.builds)
	}

	b, err := Build(ctx, NewGenerator(seed), c.size, c.concurrency)
	if err != nil {
		return nil, err
	}
	c.batch = b
	c.builds++
	slog.Debug("sample batch built", "size", c.size, "seed", b.Seed, "accept", b.Summary.Accept)
	return b, nil
}
