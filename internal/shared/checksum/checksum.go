// Package checksum computes the BLAKE2b-256 integrity digest the fixture
// layer attaches to every saved header-set capture.
package checksum

import "golang.org/x/crypto/blake2b"

// Size is the digest length in bytes.
const Size = blake2b.Size256

// Sum256 returns the BLAKE2b-256 digest of data.
func Sum256(data []byte) [Size]byte {
	return blake2b.Sum256(data)
}

// Verify reports whether want matches the digest of data.
func Verify(data []byte, want [Size]byte) bool {
	return Sum256(data) == want
}
