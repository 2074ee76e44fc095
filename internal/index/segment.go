package index

import (
	"cmp"
	"slices"
	"strings"

	"github.com/roach88/reachkb/internal/ir"
)

// Morph is a token decomposed into its three morphological slots.
// Prefix and Suffix may be empty; Middle is empty only for an empty token.
type Morph struct {
	Prefix string
	Middle string
	Suffix string
}

// Segmenter splits tokens by longest known prefix, then longest known
// suffix, always leaving a non-empty middle.
type Segmenter struct {
	prefixes []string
	suffixes []string
}

// NewSegmenter builds a segmenter from prefix and suffix inventories.
func NewSegmenter(prefixes, suffixes ir.Set) *Segmenter {
	return &Segmenter{
		prefixes: longestFirst(prefixes),
		suffixes: longestFirst(suffixes),
	}
}

func longestFirst(s ir.Set) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		if k != "" {
			out = append(out, k)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}

// Segment decomposes token. The result depends only on the token and the
// inventories.
func (s *Segmenter) Segment(token string) Morph {
	var m Morph
	rest := token
	for _, p := range s.prefixes {
		if len(rest) > len(p) && strings.HasPrefix(rest, p) {
			m.Prefix = p
			rest = rest[len(p):]
			break
		}
	}
	for _, suf := range s.suffixes {
		if len(rest) > len(suf) && strings.HasSuffix(rest, suf) {
			m.Suffix = suf
			rest = rest[:len(rest)-len(suf)]
			break
		}
	}
	m.Middle = rest
	return m
}
