package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestBytes hashes data with SHA-256 and returns the raw digest.
func DigestBytes(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DigestWithPrefix hashes data with SHA-256 and returns the digest as
// lowercase hex under the "sha256:" prefix, the form used for decision
// hashes, receipt identifiers, and policy fingerprints.
func DigestWithPrefix(data []byte) string {
	return "sha256:" + hex.EncodeToString(DigestBytes(data))
}

// DigestCanonical canonicalizes a value and returns its prefixed digest.
// Two values that canonicalize identically share a digest.
func DigestCanonical(v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	return DigestWithPrefix(canonical), nil
}
