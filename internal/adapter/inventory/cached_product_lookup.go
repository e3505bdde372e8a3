package inventory

import (
	"context"
	"log"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"
)

// CachedProductLookup serves snapshots from the cache and asks next for the
// misses. Cache errors are logged and treated as misses.
type CachedProductLookup struct {
	cache interfaces.IProductCache
	next  interfaces.IProductLookup
}

var _ interfaces.IProductLookup = (*CachedProductLookup)(nil)

func NewCachedProductLookup(cache interfaces.IProductCache, next interfaces.IProductLookup) *CachedProductLookup {
	return &CachedProductLookup{cache: cache, next: next}
}

func (l *CachedProductLookup) GetProducts(ctx context.Context, ids []string) ([]entities.ProductSnapshot, error) {
	cached, err := l.cache.Get(ctx, ids)
	if err != nil {
		log.Printf("[product][cache] get failed ids=%d err=%v", len(ids), err)
		cached = nil
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	fetched := map[string]entities.ProductSnapshot{}
	if len(missing) > 0 {
		snaps, err := l.next.GetProducts(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, s := range snaps {
			fetched[s.ProductID] = s
		}
		if len(snaps) > 0 {
			if err := l.cache.Set(ctx, snaps); err != nil {
				log.Printf("[product][cache] set failed ids=%d err=%v", len(snaps), err)
			}
		}
	}

	out := make([]entities.ProductSnapshot, 0, len(ids))
	for _, id := range ids {
		if s, ok := cached[id]; ok {
			out = append(out, s)
			continue
		}
		if s, ok := fetched[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
