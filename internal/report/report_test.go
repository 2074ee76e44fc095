package report

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ir"
)

type stubSource struct {
	legal map[string]filter.Result
	roles map[int]string
	calls atomic.Int32
}

func (s *stubSource) ContextIDs() []string {
	ids := make([]string, 0, len(s.legal))
	for id := range s.legal {
		ids = append(ids, id)
	}
	return ids
}

func (s *stubSource) LegalForContext(id string, _ ...filter.Option) filter.Result {
	s.calls.Add(1)
	if r, ok := s.legal[id]; ok {
		return r
	}
	return filter.Result{Tokens: []string{}, Classes: []int{1}}
}

func (s *stubSource) Tokens() []string { return []string{"a", "b", "c", "d"} }

func (s *stubSource) Roles() []string { return []string{"FLOW", "FRAME", "LINK"} }

func (s *stubSource) Role(id int) string { return s.roles[id] }

func newStub() *stubSource {
	return &stubSource{
		legal: map[string]filter.Result{
			"A": {Tokens: []string{"a", "b"}, Classes: []int{1, 2}},
			"B": {Tokens: []string{"b", "c"}, Classes: []int{1, 3}},
			"C": {Tokens: []string{}, Classes: []int{1}},
		},
		roles: map[int]string{1: "FRAME", 2: "FLOW", 3: "FLOW"},
	}
}

func TestBuild(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newStub()
	r, err := Build(context.Background(), src, Options{
		Corpus: map[string][][]string{
			"A": {{"a", "x"}, {"x"}},
			"C": {{"a"}},
		},
		Workers: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "morphological", r.Mode)
	assert.Equal(t, 4, r.VocabularySize)
	assert.Equal(t, 3, r.RoleCount)
	require.Len(t, r.Contexts, 3)

	a := r.Contexts[0]
	assert.Equal(t, "A", a.Context)
	assert.InDelta(t, 0.5, a.LegalityRatio, 1e-12)
	assert.Equal(t, []string{"FLOW", "FRAME"}, a.CoveredRoles)
	assert.InDelta(t, 2.0/3.0, a.RoleCoverage, 1e-12)

	c := r.Contexts[2]
	assert.Equal(t, 0.0, c.LegalityRatio)
	assert.Equal(t, []string{"FRAME"}, c.CoveredRoles)

	require.Len(t, r.Pairs, 3)
	assert.Equal(t, PairScore{A: "A", B: "B", Jaccard: 1.0 / 3.0}, r.Pairs[0])
	assert.Equal(t, PairScore{A: "A", B: "C", Jaccard: 0}, r.Pairs[1])
	assert.Equal(t, PairScore{A: "B", B: "C", Jaccard: 0}, r.Pairs[2])
	assert.InDelta(t, 1.0/9.0, r.MeanJaccard, 1e-12)
	assert.InDelta(t, 8.0/9.0, r.Discrimination, 1e-12)

	assert.Equal(t, 3, r.FragmentLines)
	assert.Equal(t, 2, r.EmptyFragmentLines)
	assert.InDelta(t, 2.0/3.0, r.EmptyFragmentRate, 1e-12)
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestBuild_DeterministicAcrossWorkerCounts(t *testing.T) {
	defer goleak.VerifyNone(t)

	serial, err := Build(context.Background(), newStub(), Options{Workers: 1})
	require.NoError(t, err)
	parallel, err := Build(context.Background(), newStub(), Options{Workers: 8})
	require.NoError(t, err)

	a, err := serial.Canonical()
	require.NoError(t, err)
	b, err := parallel.Canonical()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBuild_SelectedContexts(t *testing.T) {
	r, err := Build(context.Background(), newStub(), Options{Contexts: []string{"B", "A", "B", "unknown"}})
	require.NoError(t, err)

	require.Len(t, r.Contexts, 3)
	assert.Equal(t, "A", r.Contexts[0].Context)
	assert.Equal(t, "B", r.Contexts[1].Context)
	assert.Equal(t, "unknown", r.Contexts[2].Context)
	assert.Equal(t, []int{1}, r.Contexts[2].LegalClasses)
}

func TestBuild_Empty(t *testing.T) {
	r, err := Build(context.Background(), newStub(), Options{Contexts: []string{}})
	require.NoError(t, err)
	assert.Empty(t, r.Contexts)
	assert.Empty(t, r.Pairs)
	assert.Equal(t, 0.0, r.MeanJaccard)
	assert.Equal(t, 1.0, r.Discrimination)
	assert.Equal(t, 0.0, r.EmptyFragmentRate)
}

func TestBuild_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, newStub(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard(ir.NewSet(), ir.NewSet()))
	assert.Equal(t, 1.0, Jaccard(ir.NewSet("a"), ir.NewSet("a")))
	assert.Equal(t, 0.0, Jaccard(ir.NewSet("a"), ir.NewSet()))
	assert.Equal(t, 0.5, Jaccard(ir.NewSet("a", "b"), ir.NewSet("a")))
}

func TestCanonical(t *testing.T) {
	r := &Report{
		Mode:           "coarse",
		VocabularySize: 2,
		RoleCount:      1,
		Contexts: []ContextReport{{
			Context:       "X",
			LegalTokens:   []string{"ab"},
			LegalClasses:  []int{1, 2},
			LegalityRatio: 0.5,
			CoveredRoles:  []string{"FRAME"},
			RoleCoverage:  1,
		}},
		Discrimination: 1,
	}
	got, err := r.Canonical()
	require.NoError(t, err)

	want := `{"contexts":[{"context":"X","covered_roles":["FRAME"],"legal_classes":[1,2],"legal_tokens":["ab"],"legality_ratio":0.5,"role_coverage":1}],` +
		`"discrimination":1,"empty_fragment_lines":0,"empty_fragment_rate":0,"fragment_lines":0,"mean_jaccard":0,"mode":"coarse","pairs":[],"role_count":1,"vocabulary_size":2}`
	assert.Equal(t, want, string(got))
}
