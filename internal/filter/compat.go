package filter

import (
	"slices"

	"github.com/roach88/reachkb/internal/ir"
)

// Classifier reports whether a vocabulary item is UNIVERSAL.
// *index.Vocabulary satisfies it.
type Classifier interface {
	IsUniversal(item string) bool
}

// SharedRestricted returns the RESTRICTED items present in both a and b,
// ascending. UNIVERSAL items are excluded.
func SharedRestricted(a, b ir.Set, c Classifier) []string {
	shared := make(ir.Set)
	for item := range a.Intersect(b) {
		if !c.IsUniversal(item) {
			shared[item] = struct{}{}
		}
	}
	return shared.Sorted()
}

// Compatible reports whether two contexts share at least one RESTRICTED
// item. Contexts overlapping only on UNIVERSAL items are incompatible.
func Compatible(a, b ir.Set, c Classifier) bool {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	for item := range small {
		if large.Has(item) && !c.IsUniversal(item) {
			return true
		}
	}
	return false
}

// Divergence lists the classes on which the two modes disagree for one
// activation. Protected classes never diverge.
type Divergence struct {
	MorphologicalOnly []int `json:"morphological_only"`
	CoarseOnly        []int `json:"coarse_only"`
}

// Empty reports whether the modes agree.
func (d Divergence) Empty() bool {
	return len(d.MorphologicalOnly) == 0 && len(d.CoarseOnly) == 0
}

// Divergence evaluates act under both modes and reports the classes legal
// under exactly one. Any WithMode option is overridden.
func (f *Filter) Divergence(act Activation, opts ...Option) Divergence {
	morph := f.Legal(act, slices.Concat(opts, []Option{WithMode(ModeMorphological)})...)
	coarse := f.Legal(act, slices.Concat(opts, []Option{WithMode(ModeCoarse)})...)
	return Divergence{
		MorphologicalOnly: difference(morph.Classes, coarse.Classes),
		CoarseOnly:        difference(coarse.Classes, morph.Classes),
	}
}

func difference(a, b []int) []int {
	other := ir.NewIntSet(b...)
	out := []int{}
	for _, id := range a {
		if !other.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
