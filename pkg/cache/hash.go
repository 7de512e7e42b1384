package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data. [FileCache] derives file names
// from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// shortHash returns the first n hex digits of Hash(s).
func shortHash(s string, n int) string {
	return Hash([]byte(s))[:n]
}
