package admission

// nextPow2 returns the smallest power of two >= x.
func nextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	return x + 1
}

// mix64 is the SplitMix64 finalizer. Keys are raw uint64 identifiers with long runs of
// equal high bits, so every probe index is taken from a mixed value.
func mix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// probes derives n table indices from one hash.
func probes(h uint64, mask uint32, out []uint32) {
	for i := range out {
		out[i] = uint32(h) & mask
		h = mix64(h)
	}
}
