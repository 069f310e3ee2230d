package hpack

import "github.com/cespare/xxhash/v2"

// hashSeeded computes the 32-bit non-cryptographic hash used throughout
// this package's lookup structures. ls-hpack, the implementation this
// scheme is modeled on, uses XXH32 with an explicit seed for two purposes:
// hashing a name with seed 0, and hashing a value with seed equal to the
// name's hash, so that two entries with the same value but different names
// land in different buckets.
//
// github.com/cespare/xxhash/v2 only exposes the unseeded XXH64 algorithm, so
// the seed is folded in by writing it as an 8-byte big-endian prefix ahead of
// the real payload into the same running digest, then truncating the 64-bit
// sum to 32 bits. This keeps the hash a pure function of (seed, data) with
// good avalanche behavior; it is not required to match ls-hpack's XXH32
// output bit-for-bit; only internal self-consistency (every lookup structure
// in this package computes the hash the same way) is a correctness
// requirement.
func hashSeeded(seed uint32, data []byte) uint32 {
	d := xxhash.New()
	var seedBuf [8]byte
	seedBuf[4] = byte(seed >> 24)
	seedBuf[5] = byte(seed >> 16)
	seedBuf[6] = byte(seed >> 8)
	seedBuf[7] = byte(seed)
	_, _ = d.Write(seedBuf[:])
	_, _ = d.Write(data)
	return uint32(d.Sum64())
}

// hashName computes name_hash = hash(name, seed=0).
func hashName(name string) uint32 {
	return hashSeeded(0, []byte(name))
}

// hashNameValue computes nameval_hash = hash(value, seed=name_hash).
func hashNameValue(nameHash uint32, value string) uint32 {
	return hashSeeded(nameHash, []byte(value))
}
