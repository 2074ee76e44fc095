package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ingest"
	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/kb"
	"github.com/roach88/reachkb/internal/policy"
	"github.com/roach88/reachkb/internal/testutil"
)

func buildStore(t *testing.T, f testutil.Fixture) *kb.Store {
	t.Helper()
	s, err := kb.Build(f.Write(t),
		kb.WithInfrastructure(testutil.ScenarioInfrastructure...),
		kb.WithBuildIDGenerator(testutil.NewFixedBuildIDGenerator("memo-build")))
	require.NoError(t, err)
	return s
}

func TestMemo_ReadThrough(t *testing.T) {
	ctx := context.Background()
	c, _ := openTemp(t)
	store := buildStore(t, testutil.ScenarioFixture())

	m, err := NewMemo(ctx, store, c, policy.Version)
	require.NoError(t, err)

	key := Key{Fingerprint: store.Fingerprint(), Context: "X"}
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := m.Legal(ctx, "X", filter.ModeMorphological, "")
	require.NoError(t, err)
	assert.Equal(t, store.LegalForContext("X"), got)

	cached, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got, cached)

	again, err := m.Legal(ctx, "X", filter.ModeMorphological, "")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	b, ok, err := c.Build(ctx, store.Fingerprint())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "memo-build", b.BuildID)
	assert.Equal(t, policy.Version, b.PolicyVersion)
}

func TestMemo_ZoneAndModeAreDistinctEntries(t *testing.T) {
	ctx := context.Background()
	c, _ := openTemp(t)
	store := buildStore(t, testutil.ScenarioFixture())
	m, err := NewMemo(ctx, store, c, policy.Version)
	require.NoError(t, err)

	full, err := m.Legal(ctx, "Z", filter.ModeMorphological, "")
	require.NoError(t, err)
	zoned, err := m.Legal(ctx, "Z", filter.ModeMorphological, ir.ZoneC)
	require.NoError(t, err)
	assert.Equal(t, []string{"ol", "sh"}, full.Tokens)
	assert.Equal(t, []string{"ol"}, zoned.Tokens)
}

func TestMemo_ChangedSourcesNeverReadStaleRows(t *testing.T) {
	ctx := context.Background()
	c, _ := openTemp(t)

	first := buildStore(t, testutil.ScenarioFixture())
	m1, err := NewMemo(ctx, first, c, policy.Version)
	require.NoError(t, err)
	require.NoError(t, m1.Warm(ctx, filter.ModeMorphological, ""))

	changed := testutil.ScenarioFixture()
	changed.ContextVocabulary = `{"X": {"middles": ["ol"]}}`
	second := buildStore(t, changed)
	require.NotEqual(t, first.Fingerprint(), second.Fingerprint())

	m2, err := NewMemo(ctx, second, c, policy.Version)
	require.NoError(t, err)
	got, err := m2.Legal(ctx, "X", filter.ModeMorphological, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ol"}, got.Tokens)

	require.NoError(t, c.PurgeExcept(ctx, second.Fingerprint()))
	_, ok, err := c.Get(ctx, Key{Fingerprint: first.Fingerprint(), Context: "X"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemo_InMemoryRecordsNeverShareRows(t *testing.T) {
	ctx := context.Background()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	records := func(xMiddle string) *ingest.Records {
		rec, _, err := ingest.Ingest(testutil.ScenarioFixture().Write(t))
		require.NoError(t, err)
		rec.Digests = map[string]string{}
		rec.ContextVocabulary = map[string]ingest.ActivationRecord{
			"X": {Middles: []string{xMiddle}},
		}
		return rec
	}
	build := func(rec *ingest.Records) *kb.Store {
		s, err := kb.BuildFromRecords(rec, kb.WithInfrastructure(testutil.ScenarioInfrastructure...))
		require.NoError(t, err)
		return s
	}

	a, b := build(records("ab")), build(records("ol"))
	ma, err := NewMemo(ctx, a, c, policy.Version)
	require.NoError(t, err)
	mb, err := NewMemo(ctx, b, c, policy.Version)
	require.NoError(t, err)

	gotA, err := ma.Legal(ctx, "X", filter.ModeMorphological, "")
	require.NoError(t, err)
	gotB, err := mb.Legal(ctx, "X", filter.ModeMorphological, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, gotA.Tokens)
	assert.Equal(t, []string{"ol"}, gotB.Tokens)
}

func TestMemo_WarmCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, _ := openTemp(t)
	m, err := NewMemo(context.Background(), buildStore(t, testutil.ScenarioFixture()), c, policy.Version)
	require.NoError(t, err)

	cancel()
	assert.ErrorIs(t, m.Warm(ctx, filter.ModeCoarse, ""), context.Canceled)
}
