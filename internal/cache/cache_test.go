package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ir"
)

func openTemp(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, path
}

func TestOpen_CreatesDatabase(t *testing.T) {
	_, path := openTemp(t)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c1.RecordBuild(ctx, BuildRecord{Fingerprint: "fp", BuildID: "b1", PolicyVersion: "p"}))
	require.NoError(t, c1.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()

	v, err := c2.schemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, v)

	b, ok, err := c2.Build(ctx, "fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b1", b.BuildID)
	assert.Equal(t, ir.SchemaVersion, b.SchemaVersion)
	assert.Equal(t, ir.EngineVersion, b.EngineVersion)
}

func TestOpen_SchemaIncludesContextIndex(t *testing.T) {
	c, _ := openTemp(t)

	var name string
	err := c.db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_legal_sets_context'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_legal_sets_context", name)
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	c, path := openTemp(t)
	_, err := c.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion+1))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestOpen_InMemory(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.RecordBuild(context.Background(), BuildRecord{Fingerprint: "fp"}))
}

func TestRecordBuild_KeepsFirstRow(t *testing.T) {
	ctx := context.Background()
	c, _ := openTemp(t)

	require.NoError(t, c.RecordBuild(ctx, BuildRecord{Fingerprint: "fp", BuildID: "first"}))
	require.NoError(t, c.RecordBuild(ctx, BuildRecord{Fingerprint: "fp", BuildID: "second"}))

	b, ok, err := c.Build(ctx, "fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", b.BuildID)

	_, ok, err = c.Build(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	c, _ := openTemp(t)
	require.NoError(t, c.RecordBuild(ctx, BuildRecord{Fingerprint: "fp"}))

	key := Key{Fingerprint: "fp", Context: "f1r", Mode: filter.ModeMorphological}
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := filter.Result{Mode: filter.ModeMorphological, Tokens: []string{"ab", "daiin"}, Classes: []int{1, 2, 3}}
	require.NoError(t, c.Put(ctx, key, want))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// Mode and zone are part of the key.
	_, ok, err = c.Get(ctx, Key{Fingerprint: "fp", Context: "f1r", Mode: filter.ModeCoarse})
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = c.Get(ctx, Key{Fingerprint: "fp", Context: "f1r", Zone: ir.ZoneC})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPut_EmptyResult(t *testing.T) {
	ctx := context.Background()
	c, _ := openTemp(t)
	require.NoError(t, c.RecordBuild(ctx, BuildRecord{Fingerprint: "fp"}))

	key := Key{Fingerprint: "fp", Context: "empty", Mode: filter.ModeCoarse}
	require.NoError(t, c.Put(ctx, key, filter.Result{Classes: []int{1}}))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{}, got.Tokens)
	assert.Equal(t, filter.ModeCoarse, got.Mode)
}

func TestPut_RequiresRecordedBuild(t *testing.T) {
	c, _ := openTemp(t)
	err := c.Put(context.Background(), Key{Fingerprint: "unrecorded", Context: "x"}, filter.Result{})
	assert.Error(t, err)
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	c, _ := openTemp(t)

	for _, fp := range []string{"old", "new"} {
		require.NoError(t, c.RecordBuild(ctx, BuildRecord{Fingerprint: fp}))
		for _, id := range []string{"a", "b"} {
			require.NoError(t, c.Put(ctx, Key{Fingerprint: fp, Context: id}, filter.Result{}))
		}
	}

	n, err := c.Purge(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok, err := c.Get(ctx, Key{Fingerprint: "old", Context: "a"})
	require.NoError(t, err)
	assert.False(t, ok, "legal sets cascade with their build")
	_, ok, err = c.Get(ctx, Key{Fingerprint: "new", Context: "a"})
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.PurgeExcept(ctx, "nothing"))
	_, ok, err = c.Build(ctx, "new")
	require.NoError(t, err)
	assert.False(t, ok)
}
