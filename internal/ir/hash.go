package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix enables future algorithm migration.
const (
	DomainSource = "reachkb/source/v1"
	DomainBuild  = "reachkb/build/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SourceDigest computes the content digest of one raw source file.
func SourceDigest(data []byte) string {
	return hashWithDomain(DomainSource, data)
}

// Fingerprint identifies a build by its source digests, the policy version,
// and the schema and engine versions.
// Absent sources must be omitted from digests rather than mapped to "".
// Two builds from identical sources under the same policy share a fingerprint.
func Fingerprint(digests map[string]string, policyVersion string) (string, error) {
	obj := map[string]any{
		"sources":        digests,
		"policy_version": policyVersion,
		"schema_version": SchemaVersion,
		"engine_version": EngineVersion,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBuild, canonical), nil
}
