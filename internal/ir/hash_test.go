package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDigest_Stable(t *testing.T) {
	a := SourceDigest([]byte(`{"classes":[]}`))
	b := SourceDigest([]byte(`{"classes":[]}`))
	c := SourceDigest([]byte(`{"classes": []}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestSourceDigest_DomainSeparated(t *testing.T) {
	data := []byte("x")
	assert.NotEqual(t, hashWithDomain(DomainSource, data), hashWithDomain(DomainBuild, data))
}

func TestFingerprint_DependsOnDigestsAndPolicy(t *testing.T) {
	digests := map[string]string{"classes": "aa", "morphology": "bb"}

	f1, err := Fingerprint(digests, "v1")
	require.NoError(t, err)
	f2, err := Fingerprint(map[string]string{"morphology": "bb", "classes": "aa"}, "v1")
	require.NoError(t, err)
	f3, err := Fingerprint(digests, "v2")
	require.NoError(t, err)
	f4, err := Fingerprint(map[string]string{"classes": "aa"}, "v1")
	require.NoError(t, err)

	assert.Equal(t, f1, f2)
	assert.NotEqual(t, f1, f3)
	assert.NotEqual(t, f1, f4)
}

func TestFingerprint_CoversSchemaAndEngineVersions(t *testing.T) {
	digests := map[string]string{"classes": "aa"}
	got, err := Fingerprint(digests, "v1")
	require.NoError(t, err)

	withVersions := func(schema, engine string) string {
		canonical, err := MarshalCanonical(map[string]any{
			"sources":        map[string]any{"classes": "aa"},
			"policy_version": "v1",
			"schema_version": schema,
			"engine_version": engine,
		})
		require.NoError(t, err)
		return hashWithDomain(DomainBuild, canonical)
	}

	assert.Equal(t, withVersions(SchemaVersion, EngineVersion), got)
	assert.NotEqual(t, withVersions(SchemaVersion, EngineVersion+"-next"), got)
	assert.NotEqual(t, withVersions(SchemaVersion+"-next", EngineVersion), got)
}
