// Package enrich memoizes per-school AI enrichment for the process lifetime.
package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"collegematch/internal/ai"
)

// lookupTimeout bounds one provider call. A hung model must not stall the
// enrichment fan-out.
const lookupTimeout = 30 * time.Second

// Cache is the enrichment gateway. The first outcome for a school id, even an
// all-null one, is sticky: failed provider calls are never retried within a
// run. Values are idempotent re-derivations so last-write-wins on concurrent
// misses is fine.
type Cache struct {
	provider ai.Enricher
	logger   *zap.Logger

	mu      sync.RWMutex
	records map[int]*ai.Enrichment
}

// New builds the gateway. The provider may be nil when no AI credential is
// configured; every lookup then degrades to the all-null record and matching
// keeps working without enrichment.
func New(provider ai.Enricher, logger *zap.Logger) *Cache {
	return &Cache{
		provider: provider,
		logger:   logger,
		records:  make(map[int]*ai.Enrichment),
	}
}

// Enrich returns the cached record for the school, consulting the provider at
// most once per id.
func (c *Cache) Enrich(ctx context.Context, id int, name, state string) *ai.Enrichment {
	c.mu.RLock()
	record, ok := c.records[id]
	c.mu.RUnlock()
	if ok {
		return record
	}

	record = c.lookup(ctx, id, name, state)

	c.mu.Lock()
	// Another request may have filled the slot meanwhile. Keep the first
	// stored record so the sticky contract holds.
	if existing, ok := c.records[id]; ok {
		record = existing
	} else {
		c.records[id] = record
	}
	c.mu.Unlock()

	return record
}

func (c *Cache) lookup(ctx context.Context, id int, name, state string) *ai.Enrichment {
	if c.provider == nil {
		return ai.Empty()
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	record, err := c.provider.Enrich(ctx, id, name, state)
	if err != nil {
		c.logger.Warn("enrichment lookup failed, caching empty record",
			zap.Int("school_id", id),
			zap.String("school_name", name),
			zap.Error(err),
		)
		return ai.Empty()
	}
	if record == nil {
		return ai.Empty()
	}

	return record
}

// Len reports how many schools have cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
