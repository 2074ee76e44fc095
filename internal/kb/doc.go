// Package kb builds the constraint knowledge base.
//
// Build ingests every source, runs the enrichment passes, derives hazard
// types and the protected set, and returns an immutable *Store. There is no
// global instance and no mutation API: re-ingestion is a fresh Build, and
// several stores may coexist in one process.
//
// Build is pure apart from reading the source files. Non-fatal conditions
// are returned as diagnostics on the store and, optionally, forwarded to a
// sink as they occur. Fatal conditions return an error: *ingest.SourceError
// for malformed required sources and *ir.InvariantError for load-time
// invariant violations.
//
// A *Store is safe for concurrent readers.
package kb
