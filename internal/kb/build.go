package kb

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/hazard"
	"github.com/roach88/reachkb/internal/index"
	"github.com/roach88/reachkb/internal/ingest"
	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/policy"
	"github.com/roach88/reachkb/internal/transition"
)

// Diagnostic codes emitted while cross-referencing optional sources.
const (
	WarnUnknownVocabularyContext = "W204" // per-context vocabulary for an undeclared context
	WarnUnknownContext           = "W205" // regime or metrics entry for an undeclared context
)

// builder accumulates diagnostics while a store is assembled.
type builder struct {
	opts  options
	diags []ir.Diagnostic
}

func (b *builder) emit(diags ...ir.Diagnostic) {
	for _, d := range diags {
		b.diags = append(b.diags, d)
		b.opts.sink.Emit(d)
	}
}

// Build ingests src and assembles an immutable store.
func Build(src ingest.Sources, opts ...Option) (*Store, error) {
	b := &builder{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&b.opts)
	}

	rec, diags, err := ingest.Ingest(src)
	b.emit(diags...)
	if err != nil {
		return nil, err
	}
	return b.assemble(rec)
}

// BuildFromRecords assembles a store from already-ingested records. Records
// without file digests are fingerprinted by their content.
func BuildFromRecords(rec *ingest.Records, opts ...Option) (*Store, error) {
	b := &builder{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&b.opts)
	}
	if len(rec.Digests) == 0 {
		digests, err := rec.RecordDigests()
		if err != nil {
			return nil, err
		}
		clone := *rec
		clone.Digests = digests
		rec = &clone
	}
	return b.assemble(rec)
}

func (b *builder) assemble(rec *ingest.Records) (*Store, error) {
	x := index.NewClassIndex()
	if err := index.Run(x, index.Passes(rec)); err != nil {
		return nil, err
	}

	profiles, err := hazard.ProfilesFrom(rec.Morphology)
	if err != nil {
		return nil, err
	}
	types := hazard.Classify(profiles)

	classes, err := x.Freeze(types)
	if err != nil {
		return nil, err
	}

	protected, err := hazard.NewProtectedSet(types, b.opts.infrastructure, classes)
	if err != nil {
		return nil, err
	}

	graph, diags, err := transition.NewGraph(rec.Transitions, func(id int) bool {
		_, ok := types[id]
		return ok
	})
	b.emit(diags...)
	if err != nil {
		return nil, err
	}
	for _, id := range graph.Classes() {
		if !classes.Has(id) {
			return nil, ir.Invariantf(ir.ErrUndeclaredClass, "forbidden transition references undeclared class %d", id)
		}
	}

	s := &Store{
		classes:     classes,
		protected:   protected,
		transitions: graph,
		contexts:    make(map[string]ir.Context, len(rec.Contexts)),
		activations: make(map[string]filter.Activation),
		regimes:     make(map[string]ir.Regime),
		metrics:     make(map[string]ir.FolioMetrics),
		zones:       make(filter.ZoneTable, len(rec.Zones)),
	}

	if err := b.contexts(s, rec); err != nil {
		return nil, err
	}
	b.activations(s, rec)
	if err := b.regimes(s, rec); err != nil {
		return nil, err
	}
	b.metrics(s, rec)
	for item, zones := range rec.Zones {
		for _, z := range ir.SortedUnique(zones) {
			s.zones[item] = append(s.zones[item], ir.Zone(z))
		}
	}

	perContext := make(map[string]ir.Set, len(s.activations))
	for id, act := range s.activations {
		perContext[id] = act.Middles
	}
	s.vocabulary = index.NewVocabulary(classes, index.ComputeSpread(perContext))
	s.filter = filter.New(classes, protected, filter.WithZoneTable(s.zones))

	s.fingerprint, err = ir.Fingerprint(rec.Digests, b.policyVersion())
	if err != nil {
		return nil, err
	}
	s.buildID = b.opts.ids.Generate()
	s.diagnostics = slices.Clone(b.diags)
	return s, nil
}

func (b *builder) contexts(s *Store, rec *ingest.Records) error {
	for _, c := range rec.Contexts {
		if _, dup := s.contexts[c.ID]; dup {
			return ir.Invariantf(ir.ErrDuplicateContext, "context %q declared twice", c.ID)
		}
		zones := make(map[ir.Zone]int, len(ir.Zones))
		for _, z := range ir.Zones {
			zones[z] = c.Zones[string(z)]
		}
		s.contexts[c.ID] = ir.Context{
			ID:              c.ID,
			Section:         c.Section,
			TokenCount:      c.TokenCount,
			UniqueTypeCount: c.UniqueTypeCount,
			Zones:           zones,
		}
		s.contextIDs = append(s.contextIDs, c.ID)
	}
	slices.Sort(s.contextIDs)
	return nil
}

func (b *builder) activations(s *Store, rec *ingest.Records) {
	for _, id := range sortedKeys(rec.ContextVocabulary) {
		if _, ok := s.contexts[id]; !ok {
			b.emit(ir.Warn(WarnUnknownVocabularyContext, ingest.SourceContextVocabulary,
				"vocabulary for undeclared context %q ignored", id))
			continue
		}
		a := rec.ContextVocabulary[id]
		s.activations[id] = filter.Activation{
			Middles:  ir.NewSet(a.Middles...),
			Prefixes: ir.NewSet(a.Prefixes...),
			Suffixes: ir.NewSet(a.Suffixes...),
		}
	}
}

// regimes inverts {regime: [context ids]} into context -> regime.
func (b *builder) regimes(s *Store, rec *ingest.Records) error {
	for _, r := range ir.Regimes {
		for _, id := range rec.Regimes[string(r)] {
			if _, ok := s.contexts[id]; !ok {
				b.emit(ir.Warn(WarnUnknownContext, ingest.SourceRegimes,
					"regime %s lists undeclared context %q", r, id))
				continue
			}
			if prev, ok := s.regimes[id]; ok {
				if prev == r {
					continue
				}
				return ir.Invariantf(ir.ErrMultipleRegimes, "context %q assigned to %s and %s", id, prev, r)
			}
			s.regimes[id] = r
		}
	}
	return nil
}

func (b *builder) metrics(s *Store, rec *ingest.Records) {
	for _, id := range sortedKeys(rec.Completeness) {
		if _, ok := s.contexts[id]; !ok {
			b.emit(ir.Warn(WarnUnknownContext, ingest.SourceCompleteness,
				"metrics for undeclared context %q ignored", id))
			continue
		}
		m := rec.Completeness[id]
		s.metrics[id] = ir.FolioMetrics{
			LinkDensity:      m.LinkDensity,
			RecoveryOpsCount: m.RecoveryOpsCount,
		}
	}
}

// policyVersion folds the infrastructure set into the fingerprint so an
// overridden constant never shares a fingerprint with the frozen one.
func (b *builder) policyVersion() string {
	if !b.opts.customInfra {
		return fmt.Sprintf("%s+%s", policy.Version, policy.InfrastructureVersion)
	}
	ids := slices.Clone(b.opts.infrastructure)
	slices.Sort(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("%s+infra[%s]", policy.Version, strings.Join(parts, ","))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
