package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/roach88/reachkb/internal/cache"
	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ingest"
	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/kb"
	"github.com/roach88/reachkb/internal/policy"
	"github.com/roach88/reachkb/internal/testutil"
)

// fixtureExts are tried in order for each source.
var fixtureExts = []string{".json", ".yaml", ".yml"}

// FixtureSources locates the source files in dir. Sources without a file
// are left empty (absent).
func FixtureSources(dir string) ingest.Sources {
	find := func(name string) string {
		for _, ext := range fixtureExts {
			p := filepath.Join(dir, name+ext)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
		return ""
	}
	return ingest.Sources{
		Classes:           find(ingest.SourceClasses),
		Morphology:        find(ingest.SourceMorphology),
		Transitions:       find(ingest.SourceTransitions),
		Contexts:          find(ingest.SourceContexts),
		Zones:             find(ingest.SourceZones),
		ContextVocabulary: find(ingest.SourceContextVocabulary),
		Regimes:           find(ingest.SourceRegimes),
		Completeness:      find(ingest.SourceCompleteness),
	}
}

// Build constructs the scenario's store with a fixed build id.
func Build(scenario *Scenario) (*kb.Store, error) {
	opts := []kb.Option{
		kb.WithBuildIDGenerator(testutil.NewFixedBuildIDGenerator(scenario.BuildID)),
	}
	if scenario.Infrastructure != nil {
		opts = append(opts, kb.WithInfrastructure(scenario.Infrastructure...))
	}
	return kb.Build(FixtureSources(scenario.Fixture), opts...)
}

// Run builds the scenario's store and checks every expectation. A build
// failure is returned as an error; failed expectations are reported in the
// result.
func Run(scenario *Scenario) (*Result, error) {
	store, err := Build(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: build: %w", scenario.Name, err)
	}

	c, err := cache.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	defer c.Close()

	ctx := context.Background()
	memo, err := cache.NewMemo(ctx, store, c, policy.Version)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Store = store
	result.Diagnostics = store.Diagnostics()

	h := &harness{store: store, memo: memo, result: result}
	if err := h.checkLegality(ctx, scenario.Legality); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	h.checkCompatible(scenario.Compatible)
	h.checkSpread(scenario.Spread)
	h.checkTransitions(scenario.Transitions)
	h.checkDiagnostics(scenario.Diagnostics)
	return result, nil
}

type harness struct {
	store  *kb.Store
	memo   *cache.Memo
	result *Result
}

func (h *harness) checkLegality(ctx context.Context, expects []LegalityExpectation) error {
	for i, e := range expects {
		mode, err := filter.ParseMode(e.Mode)
		if err != nil {
			return err
		}
		got, err := h.memo.Legal(ctx, e.Context, mode, ir.Zone(e.Zone))
		if err != nil {
			return fmt.Errorf("legality[%d]: %w", i, err)
		}

		label := fmt.Sprintf("legality[%d] %s/%s", i, e.Context, mode)
		if e.Zone != "" {
			label += "@" + e.Zone
		}
		if e.Classes != nil && !slices.Equal(sortedInts(e.Classes), got.Classes) {
			h.result.AddError("%s: classes = %v, want %v", label, got.Classes, sortedInts(e.Classes))
		}
		if e.Tokens != nil && !slices.Equal(ir.SortedUnique(e.Tokens), got.Tokens) {
			h.result.AddError("%s: tokens = %v, want %v", label, got.Tokens, ir.SortedUnique(e.Tokens))
		}
		for _, id := range e.Include {
			if !got.HasClass(id) {
				h.result.AddError("%s: class %d not legal", label, id)
			}
		}
		for _, id := range e.Exclude {
			if got.HasClass(id) {
				h.result.AddError("%s: class %d unexpectedly legal", label, id)
			}
		}
		for _, id := range h.store.Protected().IDs() {
			if !got.HasClass(id) {
				h.result.AddError("%s: protected class %d missing", label, id)
			}
		}
	}
	return nil
}

func (h *harness) checkCompatible(expects []CompatibilityExpectation) {
	for i, e := range expects {
		if got := h.store.CompatibleContexts(e.A, e.B); got != e.Want {
			h.result.AddError("compatible[%d] %s~%s = %v, want %v", i, e.A, e.B, got, e.Want)
		}
	}
}

func (h *harness) checkSpread(expects []SpreadExpectation) {
	for i, e := range expects {
		if got := h.store.Spread(e.Item); got != e.Spread {
			h.result.AddError("spread[%d] %s = %d, want %d", i, e.Item, got, e.Spread)
		}
		if e.Classification == "" {
			continue
		}
		if got := h.store.Classification(e.Item); string(got) != e.Classification {
			h.result.AddError("spread[%d] %s classification = %s, want %s", i, e.Item, got, e.Classification)
		}
	}
}

func (h *harness) checkTransitions(expects []TransitionExpectation) {
	for i, e := range expects {
		ft, ok := h.store.Transitions().Lookup(e.From, e.To)
		if ok != e.Present {
			h.result.AddError("transitions[%d] %s->%s present = %v, want %v", i, e.From, e.To, ok, e.Present)
			continue
		}
		if ok && ft.Severity != e.Severity {
			h.result.AddError("transitions[%d] %s->%s severity = %v, want %v", i, e.From, e.To, ft.Severity, e.Severity)
		}
	}
}

func (h *harness) checkDiagnostics(want []string) {
	if want == nil {
		return
	}
	got := make([]string, len(h.result.Diagnostics))
	for i, d := range h.result.Diagnostics {
		got[i] = d.Code
	}
	if !slices.Equal(got, want) {
		h.result.AddError("diagnostics = %v, want %v", got, want)
	}
}

func sortedInts(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
