// Package random provides a deterministic SplitMix64 source.
// Tables are driven by a single caller, so the source keeps plain (non-atomic) state.
package random

const golden = 0x9e3779b97f4a7c15

// Source is a SplitMix64 generator. The zero value is usable and seeded with golden.
type Source struct {
	state uint64
}

// NewSource returns a source whose sequence is fully determined by seed.
func NewSource(seed uint64) *Source {
	return &Source{state: splitmixSeed(seed)}
}

// Uint64 advances the state and returns a mixed 64-bit value.
func (s *Source) Uint64() uint64 {
	s.state += golden
	return mix(s.state)
}

// Intn returns a uniform value in [0, n). It returns 0 when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	// Lemire's multiply-shift reduction on the top 32 bits.
	return int((s.Uint64() >> 32) * uint64(n) >> 32)
}

func mix(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// splitmixSeed turns a seed into a decent 64-bit starting state.
func splitmixSeed(seed uint64) uint64 {
	z := mix(seed + golden)
	if z == 0 {
		z = golden
	}
	return z
}
