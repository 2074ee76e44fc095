// Package transition holds the registry of forbidden (observed-never-occurring)
// token transitions.
//
// The graph is queried by analyses but is never consulted by the
// compatibility filter; legality and transition hazards are independent.
package transition

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/roach88/reachkb/internal/ingest"
	"github.com/roach88/reachkb/internal/ir"
)

// Diagnostic codes emitted while building the graph.
const (
	WarnDuplicateTransition = "W202" // identical token pair declared twice
	WarnUnprofiledEndpoint  = "W203" // endpoint class has no hazard profile
)

type classPair struct{ from, to int }

// Graph is the immutable forbidden-transition registry.
type Graph struct {
	byPair  map[ir.TokenPair]ir.ForbiddenTransition
	byClass map[classPair][]ir.ForbiddenTransition
	all     []ir.ForbiddenTransition
	classes ir.IntSet
}

// NewGraph builds the graph from transition records. A token pair declared
// twice with conflicting classes is an invariant violation; an identical
// duplicate is kept once and reported. isHazard, when non-nil, is used to
// report endpoints that lack a hazard profile.
func NewGraph(records []ingest.TransitionRecord, isHazard func(int) bool) (*Graph, []ir.Diagnostic, error) {
	g := &Graph{
		byPair:  make(map[ir.TokenPair]ir.ForbiddenTransition),
		byClass: make(map[classPair][]ir.ForbiddenTransition),
		classes: ir.NewIntSet(),
	}
	var diags []ir.Diagnostic

	for _, rec := range records {
		for _, tt := range rec.TokenTransitions {
			ft := ir.ForbiddenTransition{
				FromClass:   rec.FromClass,
				ToClass:     rec.ToClass,
				FromToken:   tt.FromToken,
				ToToken:     tt.ToToken,
				HazardLabel: tt.HazardLabel,
				Severity:    tt.Severity,
			}
			pair := ft.Pair()
			if prev, ok := g.byPair[pair]; ok {
				if prev.FromClass != ft.FromClass || prev.ToClass != ft.ToClass {
					return nil, diags, ir.Invariantf(ir.ErrConflictingTransition,
						"token pair %q->%q declared for classes %d->%d and %d->%d",
						pair.From, pair.To, prev.FromClass, prev.ToClass, ft.FromClass, ft.ToClass)
				}
				if prev != ft {
					return nil, diags, ir.Invariantf(ir.ErrConflictingTransition,
						"token pair %q->%q declared twice with different attributes", pair.From, pair.To)
				}
				diags = append(diags, ir.Warn(WarnDuplicateTransition, ingest.SourceTransitions,
					"token pair %q->%q declared twice; kept once", pair.From, pair.To))
				continue
			}

			g.byPair[pair] = ft
			key := classPair{ft.FromClass, ft.ToClass}
			g.byClass[key] = append(g.byClass[key], ft)
			g.all = append(g.all, ft)
			g.classes[ft.FromClass] = struct{}{}
			g.classes[ft.ToClass] = struct{}{}
		}
	}

	slices.SortFunc(g.all, compareTransitions)
	for key := range g.byClass {
		slices.SortFunc(g.byClass[key], compareTransitions)
	}

	if isHazard != nil {
		for _, id := range g.classes.Sorted() {
			if !isHazard(id) {
				diags = append(diags, ir.Warn(WarnUnprofiledEndpoint, ingest.SourceTransitions,
					"class %d appears in a forbidden transition but has no hazard profile", id))
			}
		}
	}

	return g, diags, nil
}

func compareTransitions(a, b ir.ForbiddenTransition) int {
	return cmp.Or(
		cmp.Compare(a.FromClass, b.FromClass),
		cmp.Compare(a.ToClass, b.ToClass),
		cmp.Compare(a.FromToken, b.FromToken),
		cmp.Compare(a.ToToken, b.ToToken),
	)
}

// Lookup returns the transition for a token pair.
func (g *Graph) Lookup(fromToken, toToken string) (ir.ForbiddenTransition, bool) {
	ft, ok := g.byPair[ir.TokenPair{From: fromToken, To: toToken}]
	return ft, ok
}

// IsForbidden reports whether fromToken may never be followed by toToken.
func (g *Graph) IsForbidden(fromToken, toToken string) bool {
	_, ok := g.Lookup(fromToken, toToken)
	return ok
}

// Between returns the transitions from one class to another.
func (g *Graph) Between(fromClass, toClass int) []ir.ForbiddenTransition {
	return slices.Clone(g.byClass[classPair{fromClass, toClass}])
}

// All returns every transition ordered by classes then tokens.
func (g *Graph) All() []ir.ForbiddenTransition {
	return slices.Clone(g.all)
}

// Classes returns the classes involved in at least one transition.
func (g *Graph) Classes() []int {
	return g.classes.Sorted()
}

// Len returns the number of distinct token pairs.
func (g *Graph) Len() int {
	return len(g.all)
}

func (g *Graph) String() string {
	return fmt.Sprintf("transition.Graph{pairs: %d, classes: %d}", len(g.all), len(g.classes))
}
