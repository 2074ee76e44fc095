// Package harness runs declarative conformance scenarios against a freshly
// built knowledge base.
//
// A scenario is a YAML file naming a fixture directory (one file per source,
// JSON or YAML) and the expectations to check: legal classes and tokens per
// context, pairwise compatibility, item spread, forbidden-transition lookups
// and expected diagnostic codes.
//
// Each run builds an independent store with a fixed build id and reads filter
// results through an in-memory cache, so the cache path is exercised by
// every scenario. RunWithGolden additionally snapshots the canonical
// reachability report under testdata/golden.
//
// To regenerate golden files:
//
//	go test ./internal/harness -update
package harness
