package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixture_WritesPresentSourcesOnly(t *testing.T) {
	src := ScenarioFixture().RequiredOnly().Write(t)

	assert.NotEmpty(t, src.Classes)
	assert.NotEmpty(t, src.Contexts)
	assert.Empty(t, src.Zones)
	assert.Empty(t, src.Regimes)

	data, err := os.ReadFile(src.Classes)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"daiin"`)
	assert.Equal(t, "classes.json", filepath.Base(src.Classes))
}

func TestFixture_Ext(t *testing.T) {
	f := Fixture{Classes: "classes:\n  - id: 1\n", Ext: ".yaml"}
	src := f.Write(t)
	assert.Equal(t, "classes.yaml", filepath.Base(src.Classes))
}
