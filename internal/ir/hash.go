package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFilterSpec = "parafilter/filter/v1"
	DomainRecord     = "parafilter/record/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content-addressed identity of a filter spec.
// Two specs with the same fields hash identically regardless of how the
// config spelled them (defaults filled, key order, NFC form).
func SpecHash(spec FilterSpec) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"enabled":      spec.Enabled,
		"filtersrc":    spec.SourcePath,
		"operation":    spec.Operation.String(),
		"value":        spec.Value,
		"preservegaps": spec.PreserveGaps,
	})
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFilterSpec, canonical), nil
}

// RecordHash computes the content-addressed identity of a record snapshot.
func RecordHash(record map[string]any) (string, error) {
	canonical, err := MarshalCanonical(record)
	if err != nil {
		return "", fmt.Errorf("RecordHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSpecHash(spec FilterSpec) string {
	h, err := SpecHash(spec)
	if err != nil {
		panic(err)
	}
	return h
}
