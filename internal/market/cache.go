package market

import (
	"context"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/pkg/logger"
	"github.com/clearview/vista/backend/pkg/redis"
)

// CachedProvider puts a Redis snapshot cache in front of a Provider.
// Cache entries older than staleAfter are refetched. When Redis is
// disabled every call falls through to the inner provider.
type CachedProvider struct {
	inner      Provider
	cache      *redis.Cache
	staleAfter time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewCachedProvider wraps inner with the snapshot cache.
func NewCachedProvider(inner Provider, cache *redis.Cache, staleAfter time.Duration, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner:      inner,
		cache:      cache,
		staleAfter: staleAfter,
		log:        log,
		now:        time.Now,
	}
}

// Fetch implements Provider.
func (p *CachedProvider) Fetch(ctx context.Context, symbol string, region contracts.Region) (*contracts.FinancialSnapshot, error) {
	key := redis.SnapshotKey(symbol)

	var cached contracts.FinancialSnapshot
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.log.WithError(err).WithField("symbol", symbol).Warn("Snapshot cache read failed")
	}
	if found && !cached.IsStale(p.now(), p.staleAfter) {
		return &cached, nil
	}

	snap, err := p.inner.Fetch(ctx, symbol, region)
	if err != nil {
		// A stale hit still beats a failed fetch.
		if found {
			p.log.WithField("symbol", symbol).Warn("Fetch failed, serving stale snapshot")
			return &cached, nil
		}
		return nil, err
	}

	if err := p.cache.Set(ctx, key, snap, redis.TTLSnapshot); err != nil {
		p.log.WithError(err).WithField("symbol", symbol).Warn("Snapshot cache write failed")
	}
	return snap, nil
}
