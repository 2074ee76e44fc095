package report

import (
	"fmt"

	"github.com/roach88/reachkb/internal/ir"
)

// Canonical renders the report as canonical JSON (sorted keys, no
// insignificant whitespace), suitable for snapshots and hashing.
func (r *Report) Canonical() ([]byte, error) {
	out, err := ir.MarshalCanonical(r.CanonicalMap())
	if err != nil {
		return nil, fmt.Errorf("report: canonical: %w", err)
	}
	return out, nil
}

// CanonicalMap is the report as a tree of canonical-JSON values, for
// embedding in larger snapshots.
func (r *Report) CanonicalMap() map[string]any {
	contexts := make([]any, len(r.Contexts))
	for i, c := range r.Contexts {
		contexts[i] = map[string]any{
			"context":        c.Context,
			"legal_tokens":   c.LegalTokens,
			"legal_classes":  c.LegalClasses,
			"legality_ratio": c.LegalityRatio,
			"covered_roles":  c.CoveredRoles,
			"role_coverage":  c.RoleCoverage,
		}
	}
	pairs := make([]any, len(r.Pairs))
	for i, p := range r.Pairs {
		pairs[i] = map[string]any{"a": p.A, "b": p.B, "jaccard": p.Jaccard}
	}

	return map[string]any{
		"mode":                 r.Mode,
		"vocabulary_size":      r.VocabularySize,
		"role_count":           r.RoleCount,
		"contexts":             contexts,
		"pairs":                pairs,
		"mean_jaccard":         r.MeanJaccard,
		"discrimination":       r.Discrimination,
		"fragment_lines":       r.FragmentLines,
		"empty_fragment_lines": r.EmptyFragmentLines,
		"empty_fragment_rate":  r.EmptyFragmentRate,
	}
}
