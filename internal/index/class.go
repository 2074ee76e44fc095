package index

import (
	"slices"

	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/policy"
)

// classEntry is the mutable build-time state of one class.
type classEntry struct {
	id         int
	tokens     []string
	role       string
	middles    ir.Set
	prefixes   ir.Set
	suffixes   ir.Set
	morphology bool // authoritative morphology attached
}

// ClassIndex registers instruction classes and attaches their vocabulary.
type ClassIndex struct {
	classes map[int]*classEntry
}

// NewClassIndex creates an empty builder.
func NewClassIndex() *ClassIndex {
	return &ClassIndex{classes: make(map[int]*classEntry)}
}

// RegisterClass declares a class with its member tokens and functional role.
func (x *ClassIndex) RegisterClass(id int, members []string, role string) error {
	if id < 1 || id > policy.MaxClassID {
		return ir.Invariantf(ir.ErrClassOutOfRange, "class %d outside 1..%d", id, policy.MaxClassID)
	}
	if _, ok := x.classes[id]; ok {
		return ir.Invariantf(ir.ErrDuplicateClass, "class %d registered twice", id)
	}
	x.classes[id] = &classEntry{
		id:       id,
		tokens:   ir.SortedUnique(members),
		role:     role,
		middles:  ir.NewSet(),
		prefixes: ir.NewSet(),
		suffixes: ir.NewSet(),
	}
	return nil
}

// UnionVocabulary adds middles to a class's vocabulary (coarse, additive).
func (x *ClassIndex) UnionVocabulary(id int, middles []string) error {
	c, ok := x.classes[id]
	if !ok {
		return ir.Invariantf(ir.ErrUndeclaredClass, "vocabulary for undeclared class %d", id)
	}
	for _, m := range middles {
		c.middles[m] = struct{}{}
	}
	return nil
}

// AttachMorphology replaces a class's vocabulary with its authoritative
// morphology. Any vocabulary synthesized earlier is discarded.
func (x *ClassIndex) AttachMorphology(id int, middles, prefixes, suffixes []string) error {
	c, ok := x.classes[id]
	if !ok {
		return ir.Invariantf(ir.ErrUndeclaredClass, "morphology for undeclared class %d", id)
	}
	if c.morphology {
		return ir.Invariantf(ir.ErrDuplicateMorphology, "class %d has two morphology records", id)
	}
	c.middles = ir.NewSet(middles...)
	c.prefixes = ir.NewSet(prefixes...)
	c.suffixes = ir.NewSet(suffixes...)
	c.morphology = true
	return nil
}

// Freeze validates the token partition and produces the immutable view.
// hazards assigns hazard types; classes absent from it are not hazard classes.
func (x *ClassIndex) Freeze(hazards map[int]ir.HazardType) (*Classes, error) {
	view := &Classes{
		byID:       make(map[int]ir.InstructionClass, len(x.classes)),
		middles:    make(map[int]ir.Set, len(x.classes)),
		tokenClass: make(map[string]int),
		vocabulary: ir.NewSet(),
		prefixes:   ir.NewSet(),
		suffixes:   ir.NewSet(),
	}

	roles := ir.NewSet()
	for id, c := range x.classes {
		ht := hazards[id]
		view.byID[id] = ir.InstructionClass{
			ID:         id,
			Tokens:     slices.Clone(c.tokens),
			Role:       c.role,
			Middles:    c.middles.Sorted(),
			Prefixes:   c.prefixes.Sorted(),
			Suffixes:   c.suffixes.Sorted(),
			Hazard:     ht != ir.HazardNone,
			HazardType: ht,
		}
		view.middles[id] = ir.NewSet(c.middles.Sorted()...)
		view.ids = append(view.ids, id)
		roles[c.role] = struct{}{}
		for p := range c.prefixes {
			view.prefixes[p] = struct{}{}
		}
		for s := range c.suffixes {
			view.suffixes[s] = struct{}{}
		}
	}
	slices.Sort(view.ids)
	view.roles = roles.Sorted()

	// Iterate in id order so the reported conflict is deterministic.
	for _, id := range view.ids {
		for _, tok := range x.classes[id].tokens {
			if other, ok := view.tokenClass[tok]; ok {
				return nil, ir.Invariantf(ir.ErrTokenInMultipleClasses,
					"token %q is a member of classes %d and %d", tok, other, id)
			}
			view.tokenClass[tok] = id
			view.vocabulary[tok] = struct{}{}
		}
	}
	for id := range hazards {
		if _, ok := x.classes[id]; !ok {
			return nil, ir.Invariantf(ir.ErrUndeclaredClass, "hazard type for undeclared class %d", id)
		}
	}

	view.segmenter = NewSegmenter(view.prefixes, view.suffixes)
	return view, nil
}

// Classes is the immutable class registry.
type Classes struct {
	byID       map[int]ir.InstructionClass
	ids        []int
	middles    map[int]ir.Set
	tokenClass map[string]int
	vocabulary ir.Set
	roles      []string
	prefixes   ir.Set
	suffixes   ir.Set
	segmenter  *Segmenter
}

// Class returns the class with id, or the zero value and false.
func (c *Classes) Class(id int) (ir.InstructionClass, bool) {
	cls, ok := c.byID[id]
	if !ok {
		return ir.InstructionClass{}, false
	}
	cls.Tokens = slices.Clone(cls.Tokens)
	cls.Middles = slices.Clone(cls.Middles)
	cls.Prefixes = slices.Clone(cls.Prefixes)
	cls.Suffixes = slices.Clone(cls.Suffixes)
	return cls, true
}

// Has reports whether id is a declared class.
func (c *Classes) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns every declared class id in ascending order.
func (c *Classes) IDs() []int {
	return slices.Clone(c.ids)
}

// Len returns the number of declared classes.
func (c *Classes) Len() int {
	return len(c.ids)
}

// Role returns the functional role of a class, or "" for an unknown id.
func (c *Classes) Role(id int) string {
	return c.byID[id].Role
}

// Roles returns the distinct functional roles in ascending order.
func (c *Classes) Roles() []string {
	return slices.Clone(c.roles)
}

// HazardType returns the hazard type of a class (HazardNone if unknown).
func (c *Classes) HazardType(id int) ir.HazardType {
	return c.byID[id].HazardType
}

// Middles returns the read-only vocabulary set of a class (nil if unknown).
func (c *Classes) Middles(id int) ir.Set {
	return c.middles[id]
}

// ClassOfToken returns the class a token belongs to.
func (c *Classes) ClassOfToken(token string) (int, bool) {
	id, ok := c.tokenClass[token]
	return id, ok
}

// Vocabulary returns the read-only global token vocabulary.
func (c *Classes) Vocabulary() ir.Set {
	return c.vocabulary
}

// Tokens returns the global token vocabulary in ascending order.
func (c *Classes) Tokens() []string {
	return c.vocabulary.Sorted()
}

// Segmenter returns the segmenter built from every class's prefix and
// suffix inventory.
func (c *Classes) Segmenter() *Segmenter {
	return c.segmenter
}
