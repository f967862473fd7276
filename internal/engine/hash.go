package engine

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashLength truncates digests to a readable fixed width.
const hashLength = 16

// hashValue digests a value with the engine salt. Identical
// (value, salt) pairs always yield identical output; different salts
// yield different output for the same value.
func hashValue(value, salt string) string {
	sum := sha256.Sum256([]byte(value + salt))
	return hex.EncodeToString(sum[:])[:hashLength]
}
