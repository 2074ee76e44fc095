package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/reachkb/internal/ir"
)

// Source names, used in errors, diagnostics and fingerprints.
const (
	SourceClasses           = "classes"
	SourceMorphology        = "morphology"
	SourceTransitions       = "transitions"
	SourceContexts          = "contexts"
	SourceZones             = "zones"
	SourceContextVocabulary = "context_vocabulary"
	SourceRegimes           = "regimes"
	SourceCompleteness      = "completeness"
)

// Sources locates each input file. An empty path means the source is absent.
type Sources struct {
	Classes           string `yaml:"classes"`
	Morphology        string `yaml:"morphology"`
	Transitions       string `yaml:"transitions"`
	Contexts          string `yaml:"contexts"`
	Zones             string `yaml:"zones"`
	ContextVocabulary string `yaml:"context_vocabulary"`
	Regimes           string `yaml:"regimes"`
	Completeness      string `yaml:"completeness"`
}

// ClassRecord is one entry of the class-definition source.
// Middles is the coarse vocabulary, superseded by morphology when present.
type ClassRecord struct {
	ID      int      `json:"id"`
	Tokens  []string `json:"tokens"`
	Role    string   `json:"role"`
	Middles []string `json:"middles"`
}

// MorphologyRecord is the authoritative vocabulary of one class.
type MorphologyRecord struct {
	ID       int            `json:"id"`
	Middles  []string       `json:"middles"`
	Prefixes []string       `json:"prefixes"`
	Suffixes []string       `json:"suffixes"`
	Hazard   *HazardProfile `json:"hazard,omitempty"` // nil = not hazard-profiled
}

// HazardProfile holds the structural counters used for hazard typing.
type HazardProfile struct {
	ExclusiveCount int `json:"exclusive_count"`
	SharedCount    int `json:"shared_count"`
}

// TransitionRecord groups the forbidden token transitions between two classes.
type TransitionRecord struct {
	FromClass        int                     `json:"from_class"`
	ToClass          int                     `json:"to_class"`
	TokenTransitions []TokenTransitionRecord `json:"token_transitions"`
}

// TokenTransitionRecord is one forbidden token pair.
type TokenTransitionRecord struct {
	FromToken   string  `json:"from_token"`
	ToToken     string  `json:"to_token"`
	HazardLabel string  `json:"hazard_label"`
	Severity    float64 `json:"severity"`
}

// ContextRecord is the metadata of one context.
type ContextRecord struct {
	ID              string         `json:"id"`
	Section         string         `json:"section"`
	TokenCount      int            `json:"token_count"`
	UniqueTypeCount int            `json:"unique_type_count"`
	Zones           map[string]int `json:"zones"`
}

// ActivationRecord is the activated vocabulary of one context.
// An empty prefix or suffix list means that slot is unconstrained.
type ActivationRecord struct {
	Middles  []string `json:"middles"`
	Prefixes []string `json:"prefixes"`
	Suffixes []string `json:"suffixes"`
}

// CompletenessRecord holds advisory per-context metrics.
type CompletenessRecord struct {
	LinkDensity      float64 `json:"link_density"`
	RecoveryOpsCount int     `json:"recovery_ops_count"`
}

// Records is the typed result of ingesting every source.
// Optional sources that were absent leave their fields empty (non-nil).
type Records struct {
	Classes           []ClassRecord
	Morphology        []MorphologyRecord
	Transitions       []TransitionRecord
	Contexts          []ContextRecord
	Zones             map[string][]string
	ContextVocabulary map[string]ActivationRecord
	Regimes           map[string][]string
	Completeness      map[string]CompletenessRecord

	// Digests maps each present source name to its content digest.
	Digests map[string]string
	// Present records which optional sources were loaded.
	Present map[string]bool
}

// RecordDigests digests the decoded records of every source, for records
// that were built in memory and carry no file digests. encoding/json sorts
// map keys, so equal records always digest equally.
func (r *Records) RecordDigests() (map[string]string, error) {
	sections := []struct {
		name string
		v    any
	}{
		{SourceClasses, r.Classes},
		{SourceMorphology, r.Morphology},
		{SourceTransitions, r.Transitions},
		{SourceContexts, r.Contexts},
		{SourceZones, r.Zones},
		{SourceContextVocabulary, r.ContextVocabulary},
		{SourceRegimes, r.Regimes},
		{SourceCompleteness, r.Completeness},
	}
	digests := make(map[string]string, len(sections))
	for _, s := range sections {
		data, err := json.Marshal(s.v)
		if err != nil {
			return nil, fmt.Errorf("digest %s records: %w", s.name, err)
		}
		digests[s.name] = ir.SourceDigest(data)
	}
	return digests, nil
}
