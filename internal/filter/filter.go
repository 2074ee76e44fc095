package filter

import (
	"fmt"
	"slices"

	"github.com/roach88/reachkb/internal/index"
	"github.com/roach88/reachkb/internal/ir"
)

// Mode selects the legality test.
type Mode int

const (
	ModeMorphological Mode = iota
	ModeCoarse
)

func (m Mode) String() string {
	switch m {
	case ModeMorphological:
		return "morphological"
	case ModeCoarse:
		return "coarse"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "morphological", "":
		return ModeMorphological, nil
	case "coarse":
		return ModeCoarse, nil
	}
	return 0, fmt.Errorf("unknown filter mode %q", s)
}

// Activation is a context's activated vocabulary. An empty Prefixes or
// Suffixes set leaves that slot unconstrained; an empty Middles set admits
// no token.
type Activation struct {
	Middles  ir.Set
	Prefixes ir.Set
	Suffixes ir.Set
}

// Grammar is the class registry the filter reads. *index.Classes satisfies it.
type Grammar interface {
	IDs() []int
	Vocabulary() ir.Set
	ClassOfToken(token string) (int, bool)
	Middles(id int) ir.Set
	Segmenter() *index.Segmenter
}

// Protected is the set of classes that are never pruned.
type Protected interface {
	IDs() []int
	Contains(id int) bool
}

// Result is the legal subset for one activation.
type Result struct {
	Mode    Mode     `json:"mode"`
	Tokens  []string `json:"tokens"`  // ascending, subset of the global vocabulary
	Classes []int    `json:"classes"` // ascending, superset of the protected classes
}

// HasToken reports whether token is legal.
func (r Result) HasToken(token string) bool {
	_, ok := slices.BinarySearch(r.Tokens, token)
	return ok
}

// HasClass reports whether class id is legal.
func (r Result) HasClass(id int) bool {
	_, ok := slices.BinarySearch(r.Classes, id)
	return ok
}

// Filter evaluates activations against immutable indices. It holds no
// mutable state and is safe for concurrent use.
type Filter struct {
	grammar   Grammar
	protected Protected
	defaults  settings
}

// New creates a filter. Options given here are defaults for every call.
func New(grammar Grammar, protected Protected, opts ...Option) *Filter {
	f := &Filter{grammar: grammar, protected: protected}
	for _, opt := range opts {
		opt(&f.defaults)
	}
	return f
}

// Legal computes the legal tokens and classes for act. It never fails:
// unknown tokens are ignored and an empty activation yields only the
// protected classes.
func (f *Filter) Legal(act Activation, opts ...Option) Result {
	s := f.defaults
	for _, opt := range opts {
		opt(&s)
	}

	middles := s.restrictMiddles(act.Middles)
	candidates := f.candidates(s)

	var tokens []string
	legal := ir.NewIntSet(f.protected.IDs()...)
	switch s.mode {
	case ModeCoarse:
		tokens = f.coarse(candidates, middles, legal)
	default:
		tokens = f.morphological(candidates, act, middles, legal)
	}

	return Result{Mode: s.mode, Tokens: tokens, Classes: legal.Sorted()}
}

// candidates returns the candidate tokens in ascending order, restricted to
// the global vocabulary.
func (f *Filter) candidates(s settings) []string {
	vocab := f.grammar.Vocabulary()
	if s.candidates == nil {
		return vocab.Sorted()
	}
	out := make([]string, 0, len(s.candidates))
	for _, tok := range s.candidates {
		if vocab.Has(tok) {
			out = append(out, tok)
		}
	}
	return ir.SortedUnique(out)
}

func (f *Filter) morphological(candidates []string, act Activation, middles ir.Set, legal ir.IntSet) []string {
	seg := f.grammar.Segmenter()
	tokens := []string{}
	for _, tok := range candidates {
		m := seg.Segment(tok)
		if !middles.Has(m.Middle) {
			continue
		}
		if !slotAllowed(m.Prefix, act.Prefixes) || !slotAllowed(m.Suffix, act.Suffixes) {
			continue
		}
		tokens = append(tokens, tok)
		if id, ok := f.grammar.ClassOfToken(tok); ok {
			legal[id] = struct{}{}
		}
	}
	return tokens
}

func slotAllowed(value string, activated ir.Set) bool {
	return value == "" || len(activated) == 0 || activated.Has(value)
}

func (f *Filter) coarse(candidates []string, middles ir.Set, legal ir.IntSet) []string {
	reachable := f.coarseClasses(middles)
	tokens := []string{}
	for _, tok := range candidates {
		if id, ok := f.grammar.ClassOfToken(tok); ok && reachable.Has(id) {
			tokens = append(tokens, tok)
		}
	}
	for id := range reachable {
		legal[id] = struct{}{}
	}
	return tokens
}

func (f *Filter) coarseClasses(middles ir.Set) ir.IntSet {
	out := ir.NewIntSet()
	if len(middles) == 0 {
		return out
	}
	for _, id := range f.grammar.IDs() {
		if len(f.grammar.Middles(id).Intersect(middles)) > 0 {
			out[id] = struct{}{}
		}
	}
	return out
}
