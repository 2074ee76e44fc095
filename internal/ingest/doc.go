// Package ingest decodes the knowledge base's independent input sources into
// typed records.
//
// Each source is a JSON or YAML document whose shape is declared once in the
// embedded CUE schema (schema.cue). Decoding unifies the document with its
// schema definition, which both validates it and fills declared defaults for
// missing optional fields, so downstream code never repeats fallback logic.
//
// # Availability policy
//
//   - Required sources (classes, morphology, transitions, contexts): absent or
//     malformed input aborts ingestion with a *SourceError naming the source
//     and the file position.
//   - Optional sources (zones, context_vocabulary, regimes, completeness):
//     absent input yields a W201 diagnostic and an empty record set. Present
//     but malformed input is still fatal.
//
// Ingestion never logs; diagnostics are returned as data.
package ingest
