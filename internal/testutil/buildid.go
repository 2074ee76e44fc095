package testutil

// FixedBuildIDGenerator returns the same build id on every call, so repeated
// builds of one fixture produce byte-identical snapshots.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedBuildIDGenerator struct {
	id string
}

// NewFixedBuildIDGenerator creates a generator returning id.
// If id is empty, Generate returns "test-build-default".
func NewFixedBuildIDGenerator(id string) *FixedBuildIDGenerator {
	if id == "" {
		id = "test-build-default"
	}
	return &FixedBuildIDGenerator{id: id}
}

// Generate returns the fixed build id.
func (g *FixedBuildIDGenerator) Generate() string {
	return g.id
}
