package admission

const doorDepth = 3

// doorkeeper is a bloom filter in front of the sketch: the first occurrence of a key
// only sets its bits, later ones reach the counters.
type doorkeeper struct {
	bits []uint64
	mask uint32
	idx  [doorDepth]uint32
}

func (d *doorkeeper) init(bits int) {
	if bits < 64 {
		bits = 64
	}
	n := nextPow2(bits)
	d.bits = make([]uint64, n/64)
	d.mask = uint32(n - 1)
}

func (d *doorkeeper) seen(h uint64) bool {
	probes(h, d.mask, d.idx[:])
	for _, i := range d.idx {
		if d.bits[i>>6]&(1<<(i&63)) == 0 {
			return false
		}
	}
	return true
}

// seenOrAdd reports whether h was (probably) seen and marks it otherwise.
func (d *doorkeeper) seenOrAdd(h uint64) bool {
	if d.seen(h) {
		return true
	}
	for _, i := range d.idx {
		d.bits[i>>6] |= 1 << (i & 63)
	}
	return false
}

func (d *doorkeeper) reset() {
	clear(d.bits)
}
