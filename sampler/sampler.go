// Package sampler generates the seeded pseudo-random test vectors fed to the
// round trip.
package sampler

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/tuneinsight/ckks-roundtrip-precision/params"
	"github.com/zeebo/blake3"
	"golang.org/x/exp/rand"
)

// SampleVector is an owned vector of real test values.
type SampleVector []float64

// Len returns the number of values.
func (v SampleVector) Len() int {
	return len(v)
}

// Digest returns the hex BLAKE3 hash of the little-endian IEEE-754
// representation of the values.
func (v SampleVector) Digest() string {
	h := blake3.New()
	var buf [8]byte
	for _, x := range v {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		// Hasher.Write never fails.
		_, _ = h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Sampler is a deterministic source of test vectors.
// The generator is PCG, so a given seed yields the same
// stream on every platform.
// A Sampler must not be shared between goroutines.
type Sampler struct {
	seed int64
	r    *rand.Rand
}

// New returns a Sampler seeded with seed.
func New(seed int64) *Sampler {
	src := &rand.PCGSource{}
	src.Seed(uint64(seed))
	return &Sampler{
		seed: seed,
		r:    rand.New(src),
	}
}

// Seed returns the seed the Sampler was created with.
func (s *Sampler) Seed() int64 {
	return s.seed
}

// Float64 returns the next uniform value in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.r.Float64()
}

// Generate draws count values, each u * max - min with u uniform in [0, 1).
// The resulting values lie in [-min, max - min).
func (s *Sampler) Generate(count int, min, max float64) (v SampleVector, err error) {

	if count <= 0 {
		return nil, fmt.Errorf("%w: sample count %d must be positive", params.ErrInvalidParameter, count)
	}

	v = make(SampleVector, count)
	for i := range v {
		v[i] = s.r.Float64()*max - min
	}

	return v, nil
}

// Generate is a shorthand for New(seed).Generate(count, min, max).
func Generate(seed int64, count int, min, max float64) (SampleVector, error) {
	return New(seed).Generate(count, min, max)
}
