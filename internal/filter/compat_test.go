package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/reachkb/internal/index"
	"github.com/roach88/reachkb/internal/ir"
)

type universalSet ir.Set

func (u universalSet) IsUniversal(item string) bool { return ir.Set(u).Has(item) }

func TestCompatible_Asymmetry(t *testing.T) {
	c := universalSet(ir.NewSet("xk", "ch"))

	a := ir.NewSet("xk", "ch", "qt")
	b := ir.NewSet("xk", "ch", "po")
	assert.False(t, Compatible(a, b, c), "only UNIVERSAL items shared")
	assert.NotEmpty(t, a.Intersect(b))

	b["qt"] = struct{}{}
	assert.True(t, Compatible(a, b, c))
	assert.True(t, Compatible(b, a, c))
	assert.Equal(t, []string{"qt"}, SharedRestricted(a, b, c))
}

func TestCompatible_Empty(t *testing.T) {
	c := universalSet(nil)
	assert.False(t, Compatible(nil, ir.NewSet("a"), c))
	assert.False(t, Compatible(ir.NewSet(), ir.NewSet(), c))
	assert.Empty(t, SharedRestricted(nil, nil, c))
}

func TestCompatible_WithVocabularySpread(t *testing.T) {
	perContext := map[string]ir.Set{
		"f1": ir.NewSet("xk", "qt"),
		"f2": ir.NewSet("xk", "qt"),
		"f3": ir.NewSet("xk"),
		"f4": ir.NewSet("xk"),
		"f5": ir.NewSet("xk"),
	}
	x := index.NewClassIndex()
	classes, err := x.Freeze(nil)
	if !assert.NoError(t, err) {
		return
	}
	vocab := index.NewVocabulary(classes, index.ComputeSpread(perContext))

	assert.True(t, Compatible(perContext["f1"], perContext["f2"], vocab))
	assert.False(t, Compatible(perContext["f3"], perContext["f4"], vocab))
	assert.False(t, Compatible(perContext["f1"], perContext["f3"], vocab))
}
