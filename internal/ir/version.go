package ir

// Version constants for the record schema and engine.
const (
	// SchemaVersion is the source schema version understood by ingestion.
	SchemaVersion = "1"

	// EngineVersion is the reachkb engine version.
	EngineVersion = "0.1.0"
)
