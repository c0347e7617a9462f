package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintLength is the number of hex characters kept from the SHA-256 digest.
const FingerprintLength = 16

// Fingerprint returns a short hex digest of text, used only to detect that
// a note's extracted text changed since its embedding was computed.
// The raw bytes are hashed as-is: any edit, whitespace included, changes it.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:FingerprintLength]
}
