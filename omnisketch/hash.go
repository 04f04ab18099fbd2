package omnisketch

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// idSampleSeed is H_s's seed, deliberately distinct from any row seed (the
// row seeds are small row indices, 0..height).
const idSampleSeed uint64 = 0xFFFFFFFF

// hash32WithSeed hashes a 32-bit value with the given 64-bit seed and
// returns the low 32 bits of the digest.
//
// The row hash and the ID hash both call for a well-distributed 32-bit
// seeded hash. No 32-bit xxhash implementation is vendored in this
// module's dependency set; github.com/cespare/xxhash/v2 (XXH64) is used
// instead, with the digest truncated to 32 bits. See DESIGN.md for why
// this substitution was made instead of adding a new dependency.
func hash32WithSeed(value uint32, seed uint64) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	h := xxhash.NewWithSeed(seed)
	h.Write(buf[:])
	return uint32(h.Sum64())
}

// rowHash is H_r: reduces a column value's hash x to a column index within
// row r (the caller still has to take the result mod width).
func rowHash(x uint32, row int) uint32 {
	return hash32WithSeed(x, uint64(row))
}

// idSampleHash is H_s: the bottom-k priority hash of a record ID.
func idSampleHash(id uint32) uint32 {
	return hash32WithSeed(id, idSampleSeed)
}

// deriveRecordID computes the record ID for the n-th record ingested by a
// sketch with the given seed: id := hash32WithSeed(n, seed = sketch.seed).
func deriveRecordID(n uint32, seed uint32) uint32 {
	return hash32WithSeed(n, uint64(seed))
}
