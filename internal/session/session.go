// Package session wires a loaded manifest into a ready knowledge base: the
// store, its diagnostic logger and, when configured, the filter cache.
package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/reachkb/internal/cache"
	"github.com/roach88/reachkb/internal/config"
	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/kb"
	"github.com/roach88/reachkb/internal/policy"
	"github.com/roach88/reachkb/internal/report"
)

// Session owns one store and the optional cache in front of its filter.
type Session struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *kb.Store
	cache  *cache.Cache
	memo   *cache.Memo
}

// Open validates cfg, builds the store from its sources and opens the cache
// if cfg.Cache.Path is set. Build diagnostics are logged through logger;
// extra options are passed to kb.Build after the sink.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...kb.Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	buildOpts := append([]kb.Option{kb.WithSink(kb.ZapSink(logger))}, opts...)
	store, err := kb.Build(cfg.ResolvedSources(), buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}
	logger.Info("store built",
		zap.String("build_id", store.BuildID()),
		zap.String("fingerprint", store.Fingerprint()),
		zap.Int("classes", len(store.ClassIDs())),
		zap.Int("contexts", len(store.ContextIDs())),
		zap.Int("diagnostics", len(store.Diagnostics())))

	s := &Session{cfg: cfg, logger: logger, store: store}
	if cfg.Cache.Path == "" {
		return s, nil
	}

	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	memo, err := cache.NewMemo(ctx, store, c, policy.Version)
	if err != nil {
		c.Close()
		return nil, err
	}
	s.cache = c
	s.memo = memo
	logger.Debug("cache opened", zap.String("path", cfg.Cache.Path))
	return s, nil
}

// Store returns the session's knowledge base.
func (s *Session) Store() *kb.Store {
	return s.store
}

// Cached reports whether filter results go through the cache.
func (s *Session) Cached() bool {
	return s.memo != nil
}

// Legal evaluates the filter for a context, through the cache when one is
// open.
func (s *Session) Legal(ctx context.Context, contextID string, mode filter.Mode, zone ir.Zone) (filter.Result, error) {
	if s.memo != nil {
		return s.memo.Legal(ctx, contextID, mode, zone)
	}
	opts := []filter.Option{filter.WithMode(mode)}
	if zone != "" {
		opts = append(opts, filter.WithZone(zone))
	}
	return s.store.LegalForContext(contextID, opts...), nil
}

// Warm fills the cache for every context. It is a no-op without a cache.
func (s *Session) Warm(ctx context.Context, mode filter.Mode, zone ir.Zone) error {
	if s.memo == nil {
		return nil
	}
	if err := s.memo.Warm(ctx, mode, zone); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}
	s.logger.Info("cache warmed",
		zap.Stringer("mode", mode),
		zap.String("zone", string(zone)),
		zap.Int("contexts", len(s.store.ContextIDs())))
	return nil
}

// Report computes the reachability report over the session's store.
func (s *Session) Report(ctx context.Context, opts report.Options) (*report.Report, error) {
	return report.Build(ctx, s.store, opts)
}

// Close releases the cache, if any.
func (s *Session) Close() error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return nil
}
