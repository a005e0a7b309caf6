package table

import "sort"

// Recency is a least-recently-used policy. Every slot carries a stamp of a table-global
// logical clock; the smallest stamp in a set is the victim (ties: lowest way).
type Recency struct {
	ways  int
	now   uint64
	clock []uint64
}

// NewRecency returns a factory of LRU policies.
func NewRecency() Factory {
	return func(sets, ways int) Policy { return newRecency(sets, ways) }
}

func newRecency(sets, ways int) *Recency {
	return &Recency{ways: ways, now: 1, clock: make([]uint64, sets*ways)}
}

func (r *Recency) Admit(slot int, _ Hint)  { r.stamp(slot) }
func (r *Recency) Update(slot int, _ Hint) { r.stamp(slot) }
func (r *Recency) Touch(slot int)          { r.stamp(slot) }
func (r *Recency) Remove(slot int)         { r.clock[slot] = 0 }

// Demote makes slot the least recently used of its set.
func (r *Recency) Demote(slot int) { r.clock[slot] = 0 }

func (r *Recency) Victim(set int) int { return r.Peek(set) }

func (r *Recency) Peek(set int) int {
	base := set * r.ways
	victim := 0
	for w := 1; w < r.ways; w++ {
		if r.clock[base+w] < r.clock[base+victim] {
			victim = w
		}
	}
	return victim
}

func (r *Recency) Order(set int, fn func(way int) bool) {
	base := set * r.ways
	ways := make([]int, r.ways)
	for w := range ways {
		ways[w] = w
	}
	sort.SliceStable(ways, func(i, j int) bool {
		return r.clock[base+ways[i]] < r.clock[base+ways[j]]
	})
	for _, w := range ways {
		if !fn(w) {
			return
		}
	}
}

func (r *Recency) stamp(slot int) {
	r.clock[slot] = r.now
	r.now++
}
