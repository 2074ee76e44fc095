package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ir"
)

// Scenario defines a conformance scenario.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Fixture is the directory holding the source files. Relative paths are
	// resolved against the scenario file.
	Fixture string `yaml:"fixture"`

	// Infrastructure overrides the frozen infrastructure constant.
	// Nil keeps the production constant.
	Infrastructure []int `yaml:"infrastructure,omitempty"`

	// BuildID is the fixed build id; empty means "test-build-default".
	BuildID string `yaml:"build_id,omitempty"`

	Legality    []LegalityExpectation      `yaml:"legality,omitempty"`
	Compatible  []CompatibilityExpectation `yaml:"compatible,omitempty"`
	Spread      []SpreadExpectation        `yaml:"spread,omitempty"`
	Transitions []TransitionExpectation    `yaml:"transitions,omitempty"`

	// Diagnostics lists the diagnostic codes the build must emit, in order.
	// Nil skips the check; an empty list requires a clean build.
	Diagnostics []string `yaml:"diagnostics"`

	// Corpus feeds the report's empty-fragment rate: context -> lines.
	Corpus map[string][][]string `yaml:"corpus,omitempty"`
}

// LegalityExpectation checks one filter evaluation.
type LegalityExpectation struct {
	Context string `yaml:"context"`
	Mode    string `yaml:"mode,omitempty"` // "morphological" (default) or "coarse"
	Zone    string `yaml:"zone,omitempty"`

	// Classes and Tokens, when set, must match exactly.
	Classes []int    `yaml:"classes,omitempty"`
	Tokens  []string `yaml:"tokens,omitempty"`

	// Include and Exclude are partial class checks.
	Include []int `yaml:"include,omitempty"`
	Exclude []int `yaml:"exclude,omitempty"`
}

// CompatibilityExpectation checks the pairwise compatibility test.
type CompatibilityExpectation struct {
	A    string `yaml:"a"`
	B    string `yaml:"b"`
	Want bool   `yaml:"want"`
}

// SpreadExpectation checks an item's context spread and classification.
type SpreadExpectation struct {
	Item           string `yaml:"item"`
	Spread         int    `yaml:"spread"`
	Classification string `yaml:"classification"`
}

// TransitionExpectation checks a forbidden-transition lookup.
type TransitionExpectation struct {
	From     string  `yaml:"from"`
	To       string  `yaml:"to"`
	Present  bool    `yaml:"present"`
	Severity float64 `yaml:"severity,omitempty"`
}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) {
		scenario.Fixture = filepath.Join(filepath.Dir(path), scenario.Fixture)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	if info, err := os.Stat(s.Fixture); err != nil || !info.IsDir() {
		return fmt.Errorf("fixture directory not found: %s", s.Fixture)
	}
	if len(s.Legality)+len(s.Compatible)+len(s.Spread)+len(s.Transitions) == 0 {
		return fmt.Errorf("at least one expectation is required")
	}

	for i, e := range s.Legality {
		if e.Context == "" {
			return fmt.Errorf("legality[%d]: context is required", i)
		}
		if _, err := filter.ParseMode(e.Mode); err != nil {
			return fmt.Errorf("legality[%d]: %w", i, err)
		}
		if e.Zone != "" && !isZone(e.Zone) {
			return fmt.Errorf("legality[%d]: unknown zone %q", i, e.Zone)
		}
		if e.Classes == nil && e.Tokens == nil && e.Include == nil && e.Exclude == nil {
			return fmt.Errorf("legality[%d]: nothing to check", i)
		}
	}
	for i, e := range s.Compatible {
		if e.A == "" || e.B == "" {
			return fmt.Errorf("compatible[%d]: a and b are required", i)
		}
	}
	for i, e := range s.Spread {
		if e.Item == "" {
			return fmt.Errorf("spread[%d]: item is required", i)
		}
		switch ir.Classification(e.Classification) {
		case ir.Universal, ir.Restricted, "":
		default:
			return fmt.Errorf("spread[%d]: unknown classification %q", i, e.Classification)
		}
	}
	for i, e := range s.Transitions {
		if e.From == "" || e.To == "" {
			return fmt.Errorf("transitions[%d]: from and to are required", i)
		}
	}
	return nil
}

func isZone(z string) bool {
	for _, known := range ir.Zones {
		if string(known) == z {
			return true
		}
	}
	return false
}
