// Package cache provides a SQLite-backed memo of compatibility-filter
// results.
//
// The cache is rebuildable: every row is derived from a knowledge base and
// keyed by that build's fingerprint, so a build from changed sources (or a
// changed policy) never reads rows written by another. Deleting the file is
// always safe.
//
// # Tables
//
//   - builds: one row per fingerprint (first build id seen, policy, versions)
//   - legal_sets: filter results keyed by (fingerprint, context, mode, zone),
//     stored as canonical JSON arrays
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON (legal_sets rows cascade with their build)
//   - single connection (SQLite has one writer)
package cache
