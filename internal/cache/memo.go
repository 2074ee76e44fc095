package cache

import (
	"context"
	"fmt"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/kb"
)

// Memo reads filter results through the cache for one store.
type Memo struct {
	store *kb.Store
	cache *Cache
}

// NewMemo registers the store's build and returns a read-through memo.
// policyVersion is recorded for inspection only.
func NewMemo(ctx context.Context, store *kb.Store, cache *Cache, policyVersion string) (*Memo, error) {
	err := cache.RecordBuild(ctx, BuildRecord{
		Fingerprint:   store.Fingerprint(),
		BuildID:       store.BuildID(),
		PolicyVersion: policyVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("new memo: %w", err)
	}
	return &Memo{store: store, cache: cache}, nil
}

// Legal returns the filter result for a context, computing and storing it
// on a miss.
func (m *Memo) Legal(ctx context.Context, contextID string, mode filter.Mode, zone ir.Zone) (filter.Result, error) {
	key := Key{Fingerprint: m.store.Fingerprint(), Context: contextID, Mode: mode, Zone: zone}
	if r, ok, err := m.cache.Get(ctx, key); err != nil || ok {
		return r, err
	}

	opts := []filter.Option{filter.WithMode(mode)}
	if zone != "" {
		opts = append(opts, filter.WithZone(zone))
	}
	r := m.store.LegalForContext(contextID, opts...)
	if err := m.cache.Put(ctx, key, r); err != nil {
		return filter.Result{}, err
	}
	return r, nil
}

// Warm computes and stores every context's result for mode and zone.
func (m *Memo) Warm(ctx context.Context, mode filter.Mode, zone ir.Zone) error {
	for _, id := range m.store.ContextIDs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := m.Legal(ctx, id, mode, zone); err != nil {
			return err
		}
	}
	return nil
}
