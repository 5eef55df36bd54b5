package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 of data as a 64-character hex string. The full
// digest is kept to rule out key collisions.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
