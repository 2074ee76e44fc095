// Package policy centralizes the frozen design constants of the knowledge base.
//
// Structural rules live in the algorithm packages. The values here are
// frequency-derived thresholds and hand-curated sets that domain experts may
// revise; they are changed only by explicit revision of this file, never
// derived from a statistic at runtime. Any edit must bump Version so that
// cached results keyed by build fingerprint are invalidated.
package policy

import "slices"

// Version identifies this revision of the policy constants.
const Version = "policy/v2"

// MaxClassID is the size of the instruction grammar. Class ids are 1..MaxClassID.
const MaxClassID = 49

// UniversalSpreadThreshold is the minimum number of distinct contexts an item
// must appear in to be UNIVERSAL. Items below it (including 0) are RESTRICTED.
// Not configurable.
const UniversalSpreadThreshold = 4

// PerturbationEnvelope is the relative tolerance (0.8%) consumer analyses use
// when comparing legality ratios across perturbed inputs. The engine does not
// apply it; it is exported so consumers share one value.
const PerturbationEnvelope = 0.008

// InfrastructureVersion tags the revision of InfrastructureClasses.
const InfrastructureVersion = "infra/v2"

// infrastructureClasses are structurally protected regardless of hazard
// status. Hand-curated; see InfrastructureVersion.
var infrastructureClasses = []int{11, 17, 36, 44}

// InfrastructureClasses returns a copy of the frozen infrastructure constant.
func InfrastructureClasses() []int {
	return slices.Clone(infrastructureClasses)
}

// Historical tolerance band for the size of the protected class set
// (atomic hazard classes plus infrastructure). A build outside the band
// signals an accidental constant edit or a hazard-profile drift.
const (
	ProtectedSetMinSize = 4
	ProtectedSetMaxSize = 12
)

// WithinProtectedBand reports whether n is inside the historical band.
func WithinProtectedBand(n int) bool {
	return n >= ProtectedSetMinSize && n <= ProtectedSetMaxSize
}
