package index

import (
	"fmt"

	"github.com/roach88/reachkb/internal/ingest"
)

// Merge declares how an enrichment pass combines with earlier vocabulary.
type Merge int

const (
	// MergeUnion adds to whatever earlier passes produced.
	MergeUnion Merge = iota
	// MergeOverride replaces whatever earlier passes produced.
	MergeOverride
)

func (m Merge) String() string {
	switch m {
	case MergeUnion:
		return "union"
	case MergeOverride:
		return "override"
	default:
		return fmt.Sprintf("Merge(%d)", int(m))
	}
}

// Pass is one enrichment step applied to a ClassIndex.
type Pass struct {
	Name  string
	Merge Merge
	Apply func(*ClassIndex) error
}

// Pass names, in their required order.
const (
	PassRegisterClasses  = "register-classes"
	PassCoarseVocabulary = "coarse-vocabulary"
	PassMorphology       = "authoritative-morphology"
)

// Passes returns the enrichment sequence for rec. The coarse vocabulary from
// the class-definition source is applied first and then superseded, per
// class, by the authoritative morphology.
func Passes(rec *ingest.Records) []Pass {
	return []Pass{
		{
			Name:  PassRegisterClasses,
			Merge: MergeOverride,
			Apply: func(x *ClassIndex) error {
				for _, c := range rec.Classes {
					if err := x.RegisterClass(c.ID, c.Tokens, c.Role); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name:  PassCoarseVocabulary,
			Merge: MergeUnion,
			Apply: func(x *ClassIndex) error {
				for _, c := range rec.Classes {
					if err := x.UnionVocabulary(c.ID, c.Middles); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name:  PassMorphology,
			Merge: MergeOverride,
			Apply: func(x *ClassIndex) error {
				for _, m := range rec.Morphology {
					if err := x.AttachMorphology(m.ID, m.Middles, m.Prefixes, m.Suffixes); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// Run applies passes in order, stopping at the first failure.
func Run(x *ClassIndex, passes []Pass) error {
	for _, p := range passes {
		if err := p.Apply(x); err != nil {
			return fmt.Errorf("enrichment pass %s (%s): %w", p.Name, p.Merge, err)
		}
	}
	return nil
}
