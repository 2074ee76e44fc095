// Package testutil provides fixtures and deterministic generators for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/reachkb/internal/ingest"
)

// Fixture holds raw source documents. An empty field leaves that source
// absent. Documents are JSON unless the field name below says otherwise.
type Fixture struct {
	Classes           string
	Morphology        string
	Transitions       string
	Contexts          string
	Zones             string
	ContextVocabulary string
	Regimes           string
	Completeness      string

	// Ext overrides the file extension (".json" by default).
	Ext string
}

// WriteTo writes every present document into dir and returns its Sources.
func (f Fixture) WriteTo(dir string) (ingest.Sources, error) {
	ext := f.Ext
	if ext == "" {
		ext = ".json"
	}
	var src ingest.Sources
	files := []struct {
		name string
		body string
		dst  *string
	}{
		{ingest.SourceClasses, f.Classes, &src.Classes},
		{ingest.SourceMorphology, f.Morphology, &src.Morphology},
		{ingest.SourceTransitions, f.Transitions, &src.Transitions},
		{ingest.SourceContexts, f.Contexts, &src.Contexts},
		{ingest.SourceZones, f.Zones, &src.Zones},
		{ingest.SourceContextVocabulary, f.ContextVocabulary, &src.ContextVocabulary},
		{ingest.SourceRegimes, f.Regimes, &src.Regimes},
		{ingest.SourceCompleteness, f.Completeness, &src.Completeness},
	}
	for _, file := range files {
		if file.body == "" {
			continue
		}
		path := filepath.Join(dir, file.name+ext)
		if err := os.WriteFile(path, []byte(file.body), 0o644); err != nil {
			return ingest.Sources{}, fmt.Errorf("write fixture %s: %w", file.name, err)
		}
		*file.dst = path
	}
	return src, nil
}

// Write writes the fixture into a fresh temporary directory.
func (f Fixture) Write(t testing.TB) ingest.Sources {
	t.Helper()
	src, err := f.WriteTo(t.TempDir())
	if err != nil {
		t.Fatalf("Fixture.Write: %v", err)
	}
	return src
}

// ScenarioInfrastructure is the infrastructure set ScenarioFixture is built
// with: the production classes do not exist in the small grammar.
var ScenarioInfrastructure = []int{3}

// ScenarioFixture is a five-class grammar:
//
//	1 ATOMIC hazard      token daiin
//	2 DECOMPOSABLE       token ab, vocabulary {ab}
//	3 plain              token ol, vocabulary {ol}
//	4 DECOMPOSABLE       token sh, vocabulary {sh}
//	7 DECOMPOSABLE       token cd, vocabulary {cd}
//
// with the forbidden transition 4->7 "ab"->"cd" (severity 0.8). Context X
// activates {ab}, Y activates nothing, Z activates {ol, sh}.
func ScenarioFixture() Fixture {
	return Fixture{
		Classes: `{"classes": [
  {"id": 1, "tokens": ["daiin"], "role": "FRAME"},
  {"id": 2, "tokens": ["ab"], "role": "ENERGY", "middles": ["ab"]},
  {"id": 3, "tokens": ["ol"], "role": "LINK", "middles": ["ol"]},
  {"id": 4, "tokens": ["sh"], "role": "ENERGY", "middles": ["sh"]},
  {"id": 7, "tokens": ["cd"], "role": "FLOW", "middles": ["cd"]}
]}`,
		Morphology: `{"classes": [
  {"id": 1, "hazard": {"exclusive_count": 0, "shared_count": 0}},
  {"id": 2, "middles": ["ab"], "hazard": {"exclusive_count": 1, "shared_count": 2}},
  {"id": 3, "middles": ["ol"]},
  {"id": 4, "middles": ["sh"], "hazard": {"exclusive_count": 2, "shared_count": 0}},
  {"id": 7, "middles": ["cd"], "hazard": {"exclusive_count": 0, "shared_count": 3}}
]}`,
		Transitions: `{"transitions": [
  {"from_class": 4, "to_class": 7, "token_transitions": [
    {"from_token": "ab", "to_token": "cd", "hazard_label": "PHASE_ORDERING", "severity": 0.8}
  ]}
]}`,
		Contexts: `{"contexts": [
  {"id": "X", "section": "H", "token_count": 10, "unique_type_count": 4, "zones": {"C": 3, "P": 7}},
  {"id": "Y", "section": "H", "token_count": 0},
  {"id": "Z", "section": "B", "token_count": 5, "unique_type_count": 2}
]}`,
		Zones: `{"ab": ["C", "P"], "sh": ["R1"]}`,
		ContextVocabulary: `{
  "X": {"middles": ["ab"]},
  "Y": {},
  "Z": {"middles": ["ol", "sh"]}
}`,
		Regimes:      `{"REGIME_1": ["X"], "REGIME_3": ["Z"]}`,
		Completeness: `{"X": {"link_density": 0.5, "recovery_ops_count": 2}}`,
	}
}

// RequiredOnly returns a copy of f with every optional source removed.
func (f Fixture) RequiredOnly() Fixture {
	f.Zones = ""
	f.ContextVocabulary = ""
	f.Regimes = ""
	f.Completeness = ""
	return f
}
