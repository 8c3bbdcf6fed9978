package randutil

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *mrand.Rand {
	u := uint64(seed)
	return mrand.New(mrand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromSystem returns a *rand.Rand seeded from the system entropy
// source. Used when no explicit seed is requested.
func NewFromSystem() *mrand.Rand {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform entropy source is
		// broken; a fixed seed is the only remaining option.
		return New(0)
	}
	return New(int64(binary.LittleEndian.Uint64(buf[:])))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
