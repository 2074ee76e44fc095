package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Operations(t *testing.T) {
	a := NewSet("x", "y", "z")
	b := NewSet("y", "z", "w")

	assert.True(t, a.Has("x"))
	assert.False(t, a.Has("w"))
	assert.Equal(t, []string{"y", "z"}, a.Intersect(b).Sorted())
	assert.Equal(t, []string{"w", "x", "y", "z"}, a.Union(b).Sorted())

	var nilSet Set
	assert.False(t, nilSet.Has("x"))
	assert.Empty(t, nilSet.Intersect(a))
	assert.Equal(t, []string{}, nilSet.Sorted())
}

func TestIntSet_Sorted(t *testing.T) {
	s := NewIntSet(3, 1, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, s.Sorted())
	assert.True(t, s.Has(2))
	assert.False(t, s.Has(4))
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SortedUnique([]string{"b", "a", "b"}))
	assert.Equal(t, []string{}, SortedUnique(nil))
}

func TestDiagnostic_String(t *testing.T) {
	d := Warn("W201", "zones", "optional source %q not found", "zones.json")
	assert.Equal(t, `[W201] warning: zones: optional source "zones.json" not found`, d.String())
	assert.True(t, HasCode([]Diagnostic{d}, "W201"))
	assert.False(t, HasCode([]Diagnostic{d}, "W202"))
}
