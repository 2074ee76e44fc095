package filter

import "github.com/roach88/reachkb/internal/ir"

type settings struct {
	mode       Mode
	zone       ir.Zone
	zones      ZoneTable
	candidates []string
}

// restrictMiddles drops activated middles that are illegal in the selected
// zone. Items without a zone record are unconstrained.
func (s settings) restrictMiddles(middles ir.Set) ir.Set {
	if s.zone == "" || len(s.zones) == 0 {
		return middles
	}
	out := make(ir.Set, len(middles))
	for m := range middles {
		if legal, known := s.zones.Legal(m, s.zone); legal || !known {
			out[m] = struct{}{}
		}
	}
	return out
}

// Option adjusts a Filter or a single Legal call.
type Option func(*settings)

// WithMode selects the legality test.
func WithMode(m Mode) Option {
	return func(s *settings) { s.mode = m }
}

// WithZone restricts activated middles to those legal in zone z.
// It has no effect when no zone table is configured.
func WithZone(z ir.Zone) Option {
	return func(s *settings) { s.zone = z }
}

// WithZoneTable supplies per-item zone legality.
func WithZoneTable(t ZoneTable) Option {
	return func(s *settings) { s.zones = t }
}

// WithCandidates evaluates only the given tokens instead of the whole
// global vocabulary. Tokens outside the vocabulary are dropped.
func WithCandidates(tokens []string) Option {
	return func(s *settings) { s.candidates = append([]string{}, tokens...) }
}

// ZoneTable is categorical per-item zone legality: an item is legal in the
// zones listed for it and illegal in every other zone.
type ZoneTable map[string][]ir.Zone

// Legal reports whether item may appear in zone z. known is false when the
// table has no record for item.
func (t ZoneTable) Legal(item string, z ir.Zone) (legal, known bool) {
	zones, ok := t[item]
	if !ok {
		return false, false
	}
	for _, got := range zones {
		if got == z {
			return true, true
		}
	}
	return false, true
}
