// Package report aggregates compatibility-filter results across contexts.
//
// A report is read-only: nothing it computes feeds back into the filter.
// Per-context evaluation and pairwise scoring run in parallel, with results
// written by index so the output order never depends on scheduling.
package report

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ir"
)

// Source is the read side of a knowledge base. *kb.Store satisfies it.
type Source interface {
	ContextIDs() []string
	LegalForContext(id string, opts ...filter.Option) filter.Result
	Tokens() []string
	Roles() []string
	Role(id int) string
}

// Options controls a report.
type Options struct {
	Mode filter.Mode
	Zone ir.Zone // empty = no zone restriction

	// Contexts restricts the report to these ids; nil means every context.
	Contexts []string

	// Corpus is an independent consumer corpus: per context, a list of lines,
	// each a list of tokens. It only feeds the empty-fragment rate.
	Corpus map[string][][]string

	// Workers bounds parallelism; 0 means GOMAXPROCS.
	Workers int
}

// ContextReport is the filter outcome for one context.
type ContextReport struct {
	Context       string   `json:"context"`
	LegalTokens   []string `json:"legal_tokens"`
	LegalClasses  []int    `json:"legal_classes"`
	LegalityRatio float64  `json:"legality_ratio"`
	CoveredRoles  []string `json:"covered_roles"`
	RoleCoverage  float64  `json:"role_coverage"`
}

// PairScore is the Jaccard similarity of two contexts' legal token sets.
type PairScore struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	Jaccard float64 `json:"jaccard"`
}

// Report aggregates filter results.
type Report struct {
	Mode           string          `json:"mode"`
	VocabularySize int             `json:"vocabulary_size"`
	RoleCount      int             `json:"role_count"`
	Contexts       []ContextReport `json:"contexts"`
	Pairs          []PairScore     `json:"pairs"`
	MeanJaccard    float64         `json:"mean_jaccard"`
	Discrimination float64         `json:"discrimination"`

	FragmentLines      int     `json:"fragment_lines"`
	EmptyFragmentLines int     `json:"empty_fragment_lines"`
	EmptyFragmentRate  float64 `json:"empty_fragment_rate"`
}

// Build evaluates every selected context and aggregates the results.
// It fails only if ctx is cancelled.
func Build(ctx context.Context, src Source, opts Options) (*Report, error) {
	ids := opts.Contexts
	if ids == nil {
		ids = src.ContextIDs()
	}
	ids = ir.SortedUnique(ids)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	filterOpts := []filter.Option{filter.WithMode(opts.Mode)}
	if opts.Zone != "" {
		filterOpts = append(filterOpts, filter.WithZone(opts.Zone))
	}

	vocabSize := len(src.Tokens())
	roles := src.Roles()
	r := &Report{
		Mode:           opts.Mode.String(),
		VocabularySize: vocabSize,
		RoleCount:      len(roles),
		Contexts:       make([]ContextReport, len(ids)),
	}

	legal := make([]ir.Set, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := src.LegalForContext(id, filterOpts...)
			legal[i] = ir.NewSet(res.Tokens...)
			r.Contexts[i] = contextReport(id, res, vocabSize, src, len(roles))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs, err := pairScores(ctx, ids, legal, workers)
	if err != nil {
		return nil, err
	}
	r.Pairs = pairs
	r.MeanJaccard = meanJaccard(pairs)
	r.Discrimination = 1 - r.MeanJaccard

	r.emptyFragments(ids, legal, opts.Corpus)
	return r, nil
}

func contextReport(id string, res filter.Result, vocabSize int, src Source, roleCount int) ContextReport {
	covered := ir.NewSet()
	for _, cls := range res.Classes {
		covered[src.Role(cls)] = struct{}{}
	}
	cr := ContextReport{
		Context:      id,
		LegalTokens:  slices.Clone(res.Tokens),
		LegalClasses: slices.Clone(res.Classes),
		CoveredRoles: covered.Sorted(),
	}
	cr.LegalityRatio = ratio(len(res.Tokens), vocabSize)
	cr.RoleCoverage = ratio(len(covered), roleCount)
	return cr
}

// pairScores scores every unordered pair (i<j) in id order. Rows are
// computed in parallel and concatenated in order.
func pairScores(ctx context.Context, ids []string, legal []ir.Set, workers int) ([]PairScore, error) {
	rows := make([][]PairScore, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := make([]PairScore, 0, len(ids)-i-1)
			for j := i + 1; j < len(ids); j++ {
				row = append(row, PairScore{A: ids[i], B: ids[j], Jaccard: Jaccard(legal[i], legal[j])})
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(rows...), nil
}

// Jaccard returns |a∩b| / |a∪b|. Two empty sets are identical (1).
func Jaccard(a, b ir.Set) float64 {
	inter := len(a.Intersect(b))
	union := len(a) + len(b) - inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func meanJaccard(pairs []PairScore) float64 {
	if len(pairs) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pairs {
		sum += p.Jaccard
	}
	return sum / float64(len(pairs))
}

// emptyFragments counts corpus lines with no legal token under the line's
// own context. Lines of contexts outside the report are skipped.
func (r *Report) emptyFragments(ids []string, legal []ir.Set, corpus map[string][][]string) {
	for i, id := range ids {
		for _, line := range corpus[id] {
			r.FragmentLines++
			if !slices.ContainsFunc(line, legal[i].Has) {
				r.EmptyFragmentLines++
			}
		}
	}
	r.EmptyFragmentRate = ratio(r.EmptyFragmentLines, r.FragmentLines)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
