// Package index builds the cross-referenced class and vocabulary indices.
//
// Construction is two-phase and explicit: classes are registered first, then
// vocabulary is attached by an ordered list of enrichment passes (see Passes).
// Each pass declares whether it is additive (MergeUnion) or replacing
// (MergeOverride); the order is part of the contract and is tested.
//
// A ClassIndex is a builder. Freeze produces the immutable Classes view that
// the rest of the knowledge base reads. Views never expose internal slices or
// maps; every accessor returns a copy or a read-only set.
package index
