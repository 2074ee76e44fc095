package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reachkb/internal/ingest"
	"github.com/roach88/reachkb/internal/ir"
)

func TestPasses_OrderAndMerge(t *testing.T) {
	passes := Passes(&ingest.Records{})

	var names []string
	var merges []Merge
	for _, p := range passes {
		names = append(names, p.Name)
		merges = append(merges, p.Merge)
	}
	assert.Equal(t, []string{PassRegisterClasses, PassCoarseVocabulary, PassMorphology}, names)
	assert.Equal(t, []Merge{MergeOverride, MergeUnion, MergeOverride}, merges)
}

func TestRun_MorphologySupersedesCoarse(t *testing.T) {
	rec := &ingest.Records{
		Classes: []ingest.ClassRecord{
			{ID: 1, Tokens: []string{"ab"}, Role: "CORE", Middles: []string{"coarse-a"}},
			{ID: 2, Tokens: []string{"cd"}, Role: "CORE", Middles: []string{"coarse-c"}},
		},
		Morphology: []ingest.MorphologyRecord{
			{ID: 1, Middles: []string{"ab"}},
		},
	}

	x := NewClassIndex()
	require.NoError(t, Run(x, Passes(rec)))
	view, err := x.Freeze(nil)
	require.NoError(t, err)

	c1, _ := view.Class(1)
	c2, _ := view.Class(2)
	assert.Equal(t, []string{"ab"}, c1.Middles, "morphology overrides")
	assert.Equal(t, []string{"coarse-c"}, c2.Middles, "coarse survives without morphology")
}

func TestRun_ReversedOrderChangesResult(t *testing.T) {
	rec := &ingest.Records{
		Classes:    []ingest.ClassRecord{{ID: 1, Tokens: []string{"ab"}, Middles: []string{"coarse"}}},
		Morphology: []ingest.MorphologyRecord{{ID: 1, Middles: []string{"ab"}}},
	}
	passes := Passes(rec)
	reversed := []Pass{passes[0], passes[2], passes[1]}

	x := NewClassIndex()
	require.NoError(t, Run(x, reversed))
	view, err := x.Freeze(nil)
	require.NoError(t, err)
	c1, _ := view.Class(1)
	assert.Equal(t, []string{"ab", "coarse"}, c1.Middles, "merge order is significant")
}

func TestRun_WrapsPassName(t *testing.T) {
	rec := &ingest.Records{
		Classes:    []ingest.ClassRecord{{ID: 1}},
		Morphology: []ingest.MorphologyRecord{{ID: 5}},
	}
	err := Run(NewClassIndex(), Passes(rec))
	requireInvariant(t, err, ir.ErrUndeclaredClass)
	assert.Contains(t, err.Error(), PassMorphology)
	assert.Contains(t, err.Error(), "override")
}

func TestMerge_String(t *testing.T) {
	assert.Equal(t, "union", MergeUnion.String())
	assert.Equal(t, "override", MergeOverride.String())
	assert.Equal(t, "Merge(7)", Merge(7).String())
}
