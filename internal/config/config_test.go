package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "classes.json", c.Sources.Classes)
	assert.Empty(t, c.Cache.Path)
}

func TestValidate(t *testing.T) {
	c := DefaultConfig()
	c.Sources.Transitions = ""
	assert.EqualError(t, c.Validate(), "sources.transitions is required")

	c = DefaultConfig()
	c.Sources.Zones = ""
	assert.NoError(t, c.Validate(), "optional sources may be absent")

	c = DefaultConfig()
	c.Log.Level = "loud"
	assert.ErrorContains(t, c.Validate(), "log.level")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: data
sources:
  classes: cls.yaml
  zones: ""
cache:
  path: /tmp/reachkb-cache.db
log:
  level: debug
`), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), c.DataDir)
	assert.Equal(t, "cls.yaml", c.Sources.Classes)
	assert.Equal(t, "morphology.json", c.Sources.Morphology, "unset fields keep defaults")
	assert.Empty(t, c.Sources.Zones)
	assert.Equal(t, "/tmp/reachkb-cache.db", c.Cache.Path)
	assert.Equal(t, "debug", c.Log.Level)

	src := c.ResolvedSources()
	assert.Equal(t, filepath.Join(dir, "data", "cls.yaml"), src.Classes)
	assert.Empty(t, src.Zones)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: [oops"), 0o644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestResolvedSources_KeepsAbsolutePaths(t *testing.T) {
	c := DefaultConfig()
	c.DataDir = "/data"
	c.Sources.Classes = "/elsewhere/classes.json"
	src := c.ResolvedSources()
	assert.Equal(t, "/elsewhere/classes.json", src.Classes)
	assert.Equal(t, filepath.Join("/data", "morphology.json"), src.Morphology)
}

func TestMerge(t *testing.T) {
	c := DefaultConfig()
	c.Merge(&Config{
		Sources: DefaultConfig().Sources,
		Cache:   CacheConfig{Path: ":memory:"},
	})
	assert.Equal(t, ":memory:", c.Cache.Path)
	assert.Equal(t, "info", c.Log.Level)

	c.Merge(&Config{DataDir: "/x", Log: LogConfig{Level: "warn"}})
	c.Merge(nil)
	assert.Equal(t, "/x", c.DataDir)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "classes.json", c.Sources.Classes)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ProjectConfigFile)
	c := DefaultConfig()
	c.DataDir = "/abs/data"
	c.Cache.Path = "cache.db"
	require.NoError(t, c.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoader_FindsProjectConfigInParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte("log:\n  level: error\n"), 0o644))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	c, err := NewLoader(nil).Load("", sub)
	require.NoError(t, err)
	assert.Equal(t, "error", c.Log.Level)
	assert.Equal(t, filepath.Join(root, "."), c.DataDir)
}

func TestLoader_DefaultsWhenNoManifest(t *testing.T) {
	dir := t.TempDir()
	c, err := NewLoader(nil).Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.DataDir)
	assert.Equal(t, filepath.Join(dir, "classes.json"), c.ResolvedSources().Classes)
}

func TestLoader_ExplicitPathMustExist(t *testing.T) {
	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "nope.yaml"), ".")
	assert.Error(t, err)
}

func TestLoader_InvalidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  classes: \"\"\n"), 0o644))
	_, err := NewLoader(nil).Load(path, "")
	assert.EqualError(t, err, "sources.classes is required")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("verbose")
	assert.Error(t, err)
}

func TestLoadFromFile_CachePathRelativeToManifest(t *testing.T) {
	tests := []struct {
		name string
		path string
		want func(dir string) string
	}{
		{"relative", "cache/filter.db", func(dir string) string { return filepath.Join(dir, "cache", "filter.db") }},
		{"absolute", "/var/lib/reachkb.db", func(string) string { return "/var/lib/reachkb.db" }},
		{"memory", MemoryCachePath, func(string) string { return MemoryCachePath }},
		{"empty", "", func(string) string { return "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, ProjectConfigFile)
			content := "cache:\n  path: \"" + tt.path + "\"\n"
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			c, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want(dir), c.Cache.Path)
		})
	}
}
