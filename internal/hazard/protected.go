package hazard

import (
	"slices"

	"github.com/roach88/reachkb/internal/ir"
)

// Declared reports whether a class id exists in the grammar.
type Declared interface {
	Has(id int) bool
}

// ProtectedSet is the immutable set of classes that vocabulary-based
// filtering can never exclude: atomic hazard classes ∪ infrastructure.
type ProtectedSet struct {
	ids            ir.IntSet
	sorted         []int
	atomic         []int
	infrastructure []int
}

// NewProtectedSet derives the protected set. It fails if the infrastructure
// constant names an undeclared class or if the result is empty.
func NewProtectedSet(types map[int]ir.HazardType, infrastructure []int, declared Declared) (ProtectedSet, error) {
	for _, id := range infrastructure {
		if !declared.Has(id) {
			return ProtectedSet{}, ir.Invariantf(ir.ErrUnknownInfrastructure,
				"infrastructure class %d is not declared", id)
		}
	}

	atomic := ClassesOfType(types, ir.HazardAtomic)
	ids := ir.NewIntSet(atomic...)
	for _, id := range infrastructure {
		ids[id] = struct{}{}
	}
	if len(ids) == 0 {
		return ProtectedSet{}, ir.Invariantf(ir.ErrEmptyProtectedSet,
			"no atomic hazard classes and no infrastructure classes")
	}

	infra := slices.Clone(infrastructure)
	slices.Sort(infra)
	return ProtectedSet{
		ids:            ids,
		sorted:         ids.Sorted(),
		atomic:         atomic,
		infrastructure: slices.Compact(infra),
	}, nil
}

// Contains reports whether id is protected.
func (p ProtectedSet) Contains(id int) bool {
	return p.ids.Has(id)
}

// IDs returns the protected class ids, ascending.
func (p ProtectedSet) IDs() []int {
	return slices.Clone(p.sorted)
}

// Len returns the number of protected classes.
func (p ProtectedSet) Len() int {
	return len(p.sorted)
}

// Atomic returns the atomic hazard part of the set.
func (p ProtectedSet) Atomic() []int {
	return slices.Clone(p.atomic)
}

// Infrastructure returns the infrastructure part of the set.
func (p ProtectedSet) Infrastructure() []int {
	return slices.Clone(p.infrastructure)
}
