package kb

import (
	"slices"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/hazard"
	"github.com/roach88/reachkb/internal/index"
	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/transition"
)

// Store is the immutable knowledge base. Every accessor returns a copy or a
// read-only view; unknown ids and items yield zero values, never errors.
type Store struct {
	classes     *index.Classes
	vocabulary  *index.Vocabulary
	protected   hazard.ProtectedSet
	transitions *transition.Graph
	filter      *filter.Filter

	contexts    map[string]ir.Context
	contextIDs  []string
	activations map[string]filter.Activation
	regimes     map[string]ir.Regime
	metrics     map[string]ir.FolioMetrics
	zones       filter.ZoneTable

	fingerprint string
	buildID     string
	diagnostics []ir.Diagnostic
}

// Class returns the class with id.
func (s *Store) Class(id int) (ir.InstructionClass, bool) {
	return s.classes.Class(id)
}

// ClassIDs returns every declared class id, ascending.
func (s *Store) ClassIDs() []int {
	return s.classes.IDs()
}

// Role returns the functional role of class id ("" if unknown).
func (s *Store) Role(id int) string {
	return s.classes.Role(id)
}

// Roles returns the distinct functional roles, ascending.
func (s *Store) Roles() []string {
	return s.classes.Roles()
}

// ClassOfToken returns the class a member token belongs to.
func (s *Store) ClassOfToken(token string) (int, bool) {
	return s.classes.ClassOfToken(token)
}

// Tokens returns the global token vocabulary, ascending.
func (s *Store) Tokens() []string {
	return s.classes.Tokens()
}

// Segment decomposes token into prefix, middle and suffix.
func (s *Store) Segment(token string) index.Morph {
	return s.classes.Segmenter().Segment(token)
}

// ClassesFor returns the classes declaring item; empty for an unknown item.
func (s *Store) ClassesFor(item string) []int {
	return s.vocabulary.ClassesFor(item)
}

// ItemsFor returns the vocabulary of class id; empty for an unknown class.
func (s *Store) ItemsFor(id int) []string {
	return s.vocabulary.ItemsFor(id)
}

// Spread returns the number of contexts whose activation contains item.
func (s *Store) Spread(item string) int {
	return s.vocabulary.Spread(item)
}

// Classification returns UNIVERSAL or RESTRICTED for item.
func (s *Store) Classification(item string) ir.Classification {
	return s.vocabulary.Classification(item)
}

// Vocabulary returns the vocabulary index.
func (s *Store) Vocabulary() *index.Vocabulary {
	return s.vocabulary
}

// HazardType returns the hazard type of class id.
func (s *Store) HazardType(id int) ir.HazardType {
	return s.classes.HazardType(id)
}

// IsAtomic reports whether class id is an ATOMIC hazard class.
func (s *Store) IsAtomic(id int) bool {
	return s.classes.HazardType(id) == ir.HazardAtomic
}

// IsDecomposable reports whether class id is a DECOMPOSABLE hazard class.
func (s *Store) IsDecomposable(id int) bool {
	return s.classes.HazardType(id) == ir.HazardDecomposable
}

// IsProtected reports whether class id can never be pruned.
func (s *Store) IsProtected(id int) bool {
	return s.protected.Contains(id)
}

// Protected returns the protected class set.
func (s *Store) Protected() hazard.ProtectedSet {
	return s.protected
}

// ContextIDs returns every declared context id, ascending.
func (s *Store) ContextIDs() []string {
	return slices.Clone(s.contextIDs)
}

// Context returns the metadata of context id.
func (s *Store) Context(id string) (ir.Context, bool) {
	c, ok := s.contexts[id]
	if !ok {
		return ir.Context{}, false
	}
	zones := make(map[ir.Zone]int, len(c.Zones))
	for z, n := range c.Zones {
		zones[z] = n
	}
	c.Zones = zones
	return c, true
}

// Activation returns the activated vocabulary of context id. Contexts
// without per-context vocabulary get an empty activation, under which only
// the protected classes are legal. The sets are read-only.
func (s *Store) Activation(id string) filter.Activation {
	if act, ok := s.activations[id]; ok {
		return act
	}
	return filter.Activation{Middles: ir.NewSet(), Prefixes: ir.NewSet(), Suffixes: ir.NewSet()}
}

// Regime returns the regime of context id, or RegimeNone.
func (s *Store) Regime(id string) ir.Regime {
	return s.regimes[id]
}

// ContextsInRegime returns the contexts assigned to r, ascending.
func (s *Store) ContextsInRegime(r ir.Regime) []string {
	out := []string{}
	for _, id := range s.contextIDs {
		if s.regimes[id] == r && r != ir.RegimeNone {
			out = append(out, id)
		}
	}
	return out
}

// Metrics returns the advisory completeness metrics of context id.
func (s *Store) Metrics(id string) (ir.FolioMetrics, bool) {
	m, ok := s.metrics[id]
	return m, ok
}

// ZoneLegal reports whether item may occur in zone z. Items absent from the
// zone source are legal nowhere.
func (s *Store) ZoneLegal(item string, z ir.Zone) bool {
	legal, _ := s.zones.Legal(item, z)
	return legal
}

// ZonesFor returns the zones item is legal in, in canonical zone order.
func (s *Store) ZonesFor(item string) []ir.Zone {
	out := []ir.Zone{}
	for _, z := range ir.Zones {
		if s.ZoneLegal(item, z) {
			out = append(out, z)
		}
	}
	return out
}

// Transitions returns the forbidden-transition graph.
func (s *Store) Transitions() *transition.Graph {
	return s.transitions
}

// Filter returns the compatibility filter bound to this store's indices.
func (s *Store) Filter() *filter.Filter {
	return s.filter
}

// LegalForContext runs the compatibility filter on context id's activation.
func (s *Store) LegalForContext(id string, opts ...filter.Option) filter.Result {
	return s.filter.Legal(s.Activation(id), opts...)
}

// DivergenceForContext compares both filter modes on context id.
func (s *Store) DivergenceForContext(id string, opts ...filter.Option) filter.Divergence {
	return s.filter.Divergence(s.Activation(id), opts...)
}

// CompatibleContexts reports whether two contexts share a RESTRICTED middle.
func (s *Store) CompatibleContexts(a, b string) bool {
	return filter.Compatible(s.Activation(a).Middles, s.Activation(b).Middles, s.vocabulary)
}

// Diagnostics returns the non-fatal diagnostics emitted during the build.
func (s *Store) Diagnostics() []ir.Diagnostic {
	return slices.Clone(s.diagnostics)
}

// Fingerprint identifies the build inputs: source digests, schema and policy.
func (s *Store) Fingerprint() string {
	return s.fingerprint
}

// BuildID is unique per Build call.
func (s *Store) BuildID() string {
	return s.buildID
}
