// Package hash provides xxHash64 helpers for canonical value hashing.
package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of the given bytes.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// SumString computes the xxHash64 of the given string without copying it.
func SumString(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest is a streaming xxHash64 state for hashing composite values.
type Digest = xxhash.Digest

// NewDigest creates a streaming xxHash64 state.
func NewDigest() *Digest {
	return xxhash.New()
}
