// Package canonical provides deterministic JSON canonicalization and
// content hashing for governance artifacts. Two values that are deep-equal
// after dropping absent fields and ignoring key order always hash the same.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Canonicalize returns the RFC 8785 canonical JSON encoding of v.
// Object keys are sorted recursively, array order is preserved, and
// struct fields marked omitempty disappear when unset.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: marshal: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: transform: %w", err)
	}
	return out, nil
}

// Hash returns the SHA-256 digest of the canonical encoding of v as
// lowercase hex.
func Hash(v any) (string, error) {
	b, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	return HashBytes(b), nil
}

// HashBytes hashes raw bytes without canonicalizing them first.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
