package ir

// HazardType splits hazard-involved classes by vocabulary dependency.
type HazardType string

const (
	// HazardNone marks a class that is not hazard-profiled.
	HazardNone HazardType = ""
	// HazardAtomic marks a hazard class with no vocabulary dependency.
	HazardAtomic HazardType = "ATOMIC"
	// HazardDecomposable marks a vocabulary-bearing hazard class.
	HazardDecomposable HazardType = "DECOMPOSABLE"
)

// Classification partitions vocabulary items by cross-context spread.
type Classification string

const (
	// Universal items appear in many contexts and never decide pairwise compatibility.
	Universal Classification = "UNIVERSAL"
	// Restricted items appear in few contexts (including none).
	Restricted Classification = "RESTRICTED"
)

// Zone is one of the six positional zones of a context.
type Zone string

const (
	ZoneC  Zone = "C"
	ZoneP  Zone = "P"
	ZoneR1 Zone = "R1"
	ZoneR2 Zone = "R2"
	ZoneR3 Zone = "R3"
	ZoneS  Zone = "S"
)

// Zones lists every positional zone in canonical order.
var Zones = []Zone{ZoneC, ZoneP, ZoneR1, ZoneR2, ZoneR3, ZoneS}

// Regime is the fixed 4-way context regime enumeration.
type Regime string

const (
	RegimeNone Regime = ""
	Regime1    Regime = "REGIME_1"
	Regime2    Regime = "REGIME_2"
	Regime3    Regime = "REGIME_3"
	Regime4    Regime = "REGIME_4"
)

// Regimes lists every assignable regime label.
var Regimes = []Regime{Regime1, Regime2, Regime3, Regime4}

// InstructionClass is one of the fixed instruction classes of the grammar.
//
// Invariant: HazardType is set iff Hazard is true.
type InstructionClass struct {
	ID         int        `json:"id"`
	Tokens     []string   `json:"tokens"`
	Role       string     `json:"role"`
	Middles    []string   `json:"middles"`
	Prefixes   []string   `json:"prefixes"`
	Suffixes   []string   `json:"suffixes"`
	Hazard     bool       `json:"hazard"`
	HazardType HazardType `json:"hazard_type,omitempty"`
}

// VocabularyItem is a MIDDLE with its class usage and context spread.
type VocabularyItem struct {
	Key            string         `json:"key"`
	Classes        []int          `json:"classes"`
	Spread         int            `json:"spread"`
	Classification Classification `json:"classification"`
}

// ForbiddenTransition is an observed-never-occurring token transition.
type ForbiddenTransition struct {
	FromClass   int     `json:"from_class"`
	ToClass     int     `json:"to_class"`
	FromToken   string  `json:"from_token"`
	ToToken     string  `json:"to_token"`
	HazardLabel string  `json:"hazard_label"`
	Severity    float64 `json:"severity"` // [0,1]
}

// TokenPair keys a forbidden transition.
type TokenPair struct {
	From string
	To   string
}

// Pair returns the token pair identifying t.
func (t ForbiddenTransition) Pair() TokenPair {
	return TokenPair{From: t.FromToken, To: t.ToToken}
}

// Context is a unit of text (e.g. a manuscript folio).
// Its activated vocabulary is derived, not stored here.
type Context struct {
	ID              string       `json:"id"`
	Section         string       `json:"section"`
	TokenCount      int          `json:"token_count"`
	UniqueTypeCount int          `json:"unique_type_count"`
	Zones           map[Zone]int `json:"zones"`
}

// FolioMetrics are advisory completeness metrics for a context.
// They never feed back into structural classification.
type FolioMetrics struct {
	LinkDensity      float64 `json:"link_density"`
	RecoveryOpsCount int     `json:"recovery_ops_count"`
}
