package admission

const (
	nibble        = 0xF
	halveNibbles  = 0x7777777777777777
	sketchDepth   = 4
	defaultWindow = 10
)

// sketch is a count-min sketch with 16 saturating 4-bit counters per word.
// Once window increments have been counted every counter is halved.
type sketch struct {
	words  []uint64
	mask   uint32
	adds   uint64
	window uint64
	idx    [sketchDepth]uint32
}

// init sizes the sketch to counters counters (a power of two).
func (s *sketch) init(counters, sampleMultiplier int) {
	if counters < 16 {
		counters = 16
	}
	counters = nextPow2(counters)
	if sampleMultiplier <= 0 {
		sampleMultiplier = defaultWindow
	}
	s.words = make([]uint64, counters/16)
	s.mask = uint32(counters - 1)
	s.window = uint64(sampleMultiplier) * uint64(counters)
	s.adds = 0
}

// increment bumps every probed counter and reports whether the sketch aged.
func (s *sketch) increment(h uint64) (aged bool) {
	probes(h, s.mask, s.idx[:])
	for _, i := range s.idx {
		w, sh := i>>4, (i&0xF)<<2
		if (s.words[w]>>sh)&nibble != nibble {
			s.words[w] += 1 << sh
		}
	}
	s.adds++
	if s.adds >= s.window {
		s.age()
		return true
	}
	return false
}

func (s *sketch) estimate(h uint64) uint8 {
	probes(h, s.mask, s.idx[:])
	least := uint8(nibble)
	for _, i := range s.idx {
		if v := uint8((s.words[i>>4] >> ((i & 0xF) << 2)) & nibble); v < least {
			least = v
		}
	}
	return least
}

// age halves every counter.
func (s *sketch) age() {
	for i, w := range s.words {
		s.words[i] = (w >> 1) & halveNibbles
	}
	s.adds = 0
}
