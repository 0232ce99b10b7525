// Package rng implements the single deterministic PRNG spec §5 requires:
// seeded once per game, drawn on by the engine through Shuffle and Choice
// (built on the exported Uint64 and Intn primitives), and never handed to
// an agent. Seed derivation uses blake2b so that two games
// started with the same textual seed always produce the same stream
// regardless of platform, grounded on the teacher's golang.org/x/crypto
// dependency (present in its go.mod but never wired to a concrete use) —
// this package is that dependency's home.
package rng

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Source is a deterministic, non-cryptographic PRNG (xorshift128+ seeded
// from a blake2b digest). It is not safe for concurrent use; the engine is
// single-threaded per spec §5.
type Source struct {
	s0, s1 uint64
}

// New derives a Source from an arbitrary seed byte string (typically the
// match seed the caller supplies to new_game). The same seed always yields
// the same stream.
func New(seed []byte) *Source {
	sum := blake2b.Sum512(seed)
	s0 := binary.LittleEndian.Uint64(sum[0:8])
	s1 := binary.LittleEndian.Uint64(sum[8:16])
	if s0 == 0 && s1 == 0 {
		s1 = 1 // xorshift128+ requires a nonzero state
	}
	return &Source{s0: s0, s1: s1}
}

// NewFromSeed derives a Source from a uint64 seed (match seed supplied as
// a number rather than arbitrary bytes).
func NewFromSeed(seed uint64) *Source {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	return New(b[:])
}

// Uint64 returns the next pseudo-random value in the stream.
func (s *Source) Uint64() uint64 {
	x := s.s0
	y := s.s1
	s.s0 = y
	x ^= x << 23
	x ^= x >> 17
	x ^= y ^ (y >> 26)
	s.s1 = x
	return x + y
}

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0,
// matching math/rand's contract.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return int(s.Uint64() % uint64(n))
}

// Shuffle permutes a library (or any ordered sequence) in place using a
// Fisher-Yates shuffle driven by this source, the only randomness spec §5
// names explicitly ("shuffle(library)").
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}

// Choice returns a pseudo-random index in [0, n), for explicit random
// choices named by cards (e.g. cascade, coin flips) that are not a
// library shuffle but still must not be observable by an agent.
func (s *Source) Choice(n int) int {
	return s.Intn(n)
}
