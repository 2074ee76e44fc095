package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/reachkb/internal/filter"
	"github.com/roach88/reachkb/internal/ir"
)

// BuildRecord identifies a cached build.
type BuildRecord struct {
	Fingerprint   string
	BuildID       string
	PolicyVersion string
	SchemaVersion string
	EngineVersion string
}

// Key addresses one memoized filter result.
type Key struct {
	Fingerprint string
	Context     string
	Mode        filter.Mode
	Zone        ir.Zone
}

// RecordBuild registers a build. Re-recording a fingerprint keeps the first
// row: the fingerprint alone determines every cached result.
func (c *Cache) RecordBuild(ctx context.Context, b BuildRecord) error {
	if b.SchemaVersion == "" {
		b.SchemaVersion = ir.SchemaVersion
	}
	if b.EngineVersion == "" {
		b.EngineVersion = ir.EngineVersion
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO builds (fingerprint, build_id, policy_version, schema_version, engine_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, b.Fingerprint, b.BuildID, b.PolicyVersion, b.SchemaVersion, b.EngineVersion)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// Build returns the build row for fingerprint.
func (c *Cache) Build(ctx context.Context, fingerprint string) (BuildRecord, bool, error) {
	var b BuildRecord
	err := c.db.QueryRowContext(ctx, `
		SELECT fingerprint, build_id, policy_version, schema_version, engine_version
		FROM builds WHERE fingerprint = ?
	`, fingerprint).Scan(&b.Fingerprint, &b.BuildID, &b.PolicyVersion, &b.SchemaVersion, &b.EngineVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, false, nil
	}
	if err != nil {
		return BuildRecord{}, false, fmt.Errorf("read build: %w", err)
	}
	return b, true, nil
}

// Put stores a filter result. The build must have been recorded first.
// Results are pure functions of the key, so an existing row is kept.
func (c *Cache) Put(ctx context.Context, k Key, r filter.Result) error {
	tokens, err := ir.MarshalCanonical(r.Tokens)
	if err != nil {
		return fmt.Errorf("put legal set: tokens: %w", err)
	}
	classes, err := ir.MarshalCanonical(r.Classes)
	if err != nil {
		return fmt.Errorf("put legal set: classes: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO legal_sets (fingerprint, context_id, mode, zone, tokens, classes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint, context_id, mode, zone) DO NOTHING
	`, k.Fingerprint, k.Context, k.Mode.String(), string(k.Zone), string(tokens), string(classes))
	if err != nil {
		return fmt.Errorf("put legal set: %w", err)
	}
	return nil
}

// Get returns the memoized result for k.
func (c *Cache) Get(ctx context.Context, k Key) (filter.Result, bool, error) {
	var tokens, classes string
	err := c.db.QueryRowContext(ctx, `
		SELECT tokens, classes FROM legal_sets
		WHERE fingerprint = ? AND context_id = ? AND mode = ? AND zone = ?
	`, k.Fingerprint, k.Context, k.Mode.String(), string(k.Zone)).Scan(&tokens, &classes)
	if errors.Is(err, sql.ErrNoRows) {
		return filter.Result{}, false, nil
	}
	if err != nil {
		return filter.Result{}, false, fmt.Errorf("get legal set: %w", err)
	}

	r := filter.Result{Mode: k.Mode}
	if err := json.Unmarshal([]byte(tokens), &r.Tokens); err != nil {
		return filter.Result{}, false, fmt.Errorf("get legal set: tokens: %w", err)
	}
	if err := json.Unmarshal([]byte(classes), &r.Classes); err != nil {
		return filter.Result{}, false, fmt.Errorf("get legal set: classes: %w", err)
	}
	return r, true, nil
}

// Purge deletes a build and its cached results, returning the number of
// legal-set rows removed.
func (c *Cache) Purge(ctx context.Context, fingerprint string) (int64, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM legal_sets WHERE fingerprint = ?`, fingerprint).Scan(&n); err != nil {
		return 0, fmt.Errorf("purge: count: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM builds WHERE fingerprint = ?`, fingerprint); err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	return n, nil
}

// PurgeExcept deletes every build other than keep.
func (c *Cache) PurgeExcept(ctx context.Context, keep string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM builds WHERE fingerprint <> ?`, keep); err != nil {
		return fmt.Errorf("purge except: %w", err)
	}
	return nil
}
