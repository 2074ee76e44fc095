package index

import (
	"slices"

	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/policy"
)

// ComputeSpread counts, for every item, the distinct contexts whose activated
// vocabulary contains it. It is a pure function and is not maintained
// incrementally: rerun it whenever per-context vocabulary changes.
func ComputeSpread(perContext map[string]ir.Set) map[string]int {
	spread := make(map[string]int)
	for _, vocab := range perContext {
		for item := range vocab {
			spread[item]++
		}
	}
	return spread
}

// Classify maps a context spread to UNIVERSAL or RESTRICTED using the frozen
// policy threshold.
func Classify(spread int) ir.Classification {
	if spread >= policy.UniversalSpreadThreshold {
		return ir.Universal
	}
	return ir.Restricted
}

// Vocabulary is the immutable bidirectional map between MIDDLEs and classes,
// annotated with context spread.
type Vocabulary struct {
	classesFor map[string][]int
	itemsFor   map[int][]string
	spread     map[string]int
	items      []string
}

// NewVocabulary indexes the vocabulary of classes with the given spread.
// Items seen only in contexts (no declaring class) are still indexed.
func NewVocabulary(classes *Classes, spread map[string]int) *Vocabulary {
	v := &Vocabulary{
		classesFor: make(map[string][]int),
		itemsFor:   make(map[int][]string),
		spread:     make(map[string]int, len(spread)),
	}
	all := ir.NewSet()
	for _, id := range classes.IDs() {
		items := classes.Middles(id).Sorted()
		v.itemsFor[id] = items
		for _, item := range items {
			v.classesFor[item] = append(v.classesFor[item], id)
			all[item] = struct{}{}
		}
	}
	for item, n := range spread {
		v.spread[item] = n
		all[item] = struct{}{}
	}
	v.items = all.Sorted()
	return v
}

// ClassesFor returns the classes declaring item, ascending; empty for an
// unknown item.
func (v *Vocabulary) ClassesFor(item string) []int {
	return append([]int{}, v.classesFor[item]...)
}

// ItemsFor returns the vocabulary of a class, ascending; empty for an
// unknown class.
func (v *Vocabulary) ItemsFor(id int) []string {
	return append([]string{}, v.itemsFor[id]...)
}

// Spread returns the number of contexts containing item (0 if unknown).
func (v *Vocabulary) Spread(item string) int {
	return v.spread[item]
}

// Classification returns UNIVERSAL or RESTRICTED for item.
func (v *Vocabulary) Classification(item string) ir.Classification {
	return Classify(v.spread[item])
}

// IsUniversal reports whether item is UNIVERSAL.
func (v *Vocabulary) IsUniversal(item string) bool {
	return v.Classification(item) == ir.Universal
}

// Item returns the full record for item.
func (v *Vocabulary) Item(item string) ir.VocabularyItem {
	return ir.VocabularyItem{
		Key:            item,
		Classes:        v.ClassesFor(item),
		Spread:         v.Spread(item),
		Classification: v.Classification(item),
	}
}

// Items returns every known item in ascending order.
func (v *Vocabulary) Items() []string {
	return slices.Clone(v.items)
}
