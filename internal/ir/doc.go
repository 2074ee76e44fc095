// Package ir provides the canonical record types for the reachkb knowledge base.
//
// This package contains type definitions plus the serialization helpers that
// identity depends on. All other internal packages import ir; ir imports
// nothing internal. This keeps the data model the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - Records are immutable once built; there is no mutation API
//   - Unknown lookups return zero values, never errors
//   - All JSON tags use snake_case
//   - Identity (fingerprints) is computed over canonical JSON only
package ir
