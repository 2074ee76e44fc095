// Package hazard classifies hazard classes and derives the protected
// ("kernel") class set.
//
// Classification is purely structural: a hazard class is ATOMIC iff both of
// its profile counters are zero, otherwise DECOMPOSABLE. Corpus frequency
// never enters the rule. Protection and hazard type are orthogonal; an
// infrastructure class may also be a DECOMPOSABLE hazard class.
package hazard

import (
	"slices"

	"github.com/roach88/reachkb/internal/ingest"
	"github.com/roach88/reachkb/internal/ir"
)

// Profile holds the structural counters of one hazard class.
type Profile struct {
	ExclusiveCount int
	SharedCount    int
}

// TypeOf classifies a single profile.
func TypeOf(p Profile) ir.HazardType {
	if p.ExclusiveCount == 0 && p.SharedCount == 0 {
		return ir.HazardAtomic
	}
	return ir.HazardDecomposable
}

// ProfilesFrom extracts hazard profiles from morphology records. A class
// absent from the result is not a hazard class; there is no "unknown" state.
func ProfilesFrom(records []ingest.MorphologyRecord) (map[int]Profile, error) {
	profiles := make(map[int]Profile)
	for _, m := range records {
		if m.Hazard == nil {
			continue
		}
		if _, dup := profiles[m.ID]; dup {
			return nil, ir.Invariantf(ir.ErrDuplicateHazardProfile, "class %d has two hazard profiles", m.ID)
		}
		profiles[m.ID] = Profile{
			ExclusiveCount: m.Hazard.ExclusiveCount,
			SharedCount:    m.Hazard.SharedCount,
		}
	}
	return profiles, nil
}

// Classify assigns exactly one hazard type to every profiled class.
func Classify(profiles map[int]Profile) map[int]ir.HazardType {
	types := make(map[int]ir.HazardType, len(profiles))
	for id, p := range profiles {
		types[id] = TypeOf(p)
	}
	return types
}

// ClassesOfType returns the ids with hazard type want, ascending.
func ClassesOfType(types map[int]ir.HazardType, want ir.HazardType) []int {
	var ids []int
	for id, t := range types {
		if t == want {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
