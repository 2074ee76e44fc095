package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/report"
)

// Snapshot renders the canonical snapshot of a scenario: its name, build id,
// the expectation outcome and the reachability report.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	r, err := report.Build(context.Background(), result.Store, report.Options{Corpus: scenario.Corpus})
	if err != nil {
		return nil, err
	}

	diagnostics := make([]any, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		diagnostics[i] = map[string]any{
			"code":     d.Code,
			"severity": string(d.Severity),
			"source":   d.Source,
			"message":  d.Message,
		}
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario_name": scenario.Name,
		"build_id":      result.Store.BuildID(),
		"pass":          result.Pass,
		"diagnostics":   diagnostics,
		"report":        r.CanonicalMap(),
	})
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	snapshot, err := Snapshot(scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)
	return result, nil
}
