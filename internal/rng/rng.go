// Package rng provides the seeded randomness source used by the fuzzer.
// Every random decision the harness makes flows through one RNG so a run
// can be reproduced from its seed alone.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// RNG wraps a seeded math/rand source with the two draws the fuzzer needs:
// inclusive-bounds uniform integers and percent-weighted booleans.
type RNG struct {
	r    *rand.Rand
	seed int64
}

// New returns an RNG seeded from the operating system's entropy source,
// so repeated harness runs explore different sequences.
func New() *RNG {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand failing is not something we can recover from,
		// but a constant seed still yields a usable fuzzer.
		return NewSeeded(1)
	}
	return NewSeeded(int64(binary.LittleEndian.Uint64(buf[:])))
}

// NewSeeded returns an RNG with an explicit seed, for reproducing a run.
func NewSeeded(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed this RNG was created with.
func (g *RNG) Seed() int64 {
	return g.seed
}

// Int returns a uniform integer in [lo, hi], bounds inclusive.
func (g *RNG) Int(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Intn(hi-lo+1)
}

// Bool returns true with the given percent probability.
// Bool(0) is never true and Bool(100) is always true.
func (g *RNG) Bool(truePercent int) bool {
	return g.Int(1, 100) <= truePercent
}
