package store

import "slices"

// reverse maps a target key to the set of sources currently pointing at it.
type reverse map[uint64]map[uint64]struct{}

func (r reverse) add(target, src uint64) {
	srcs, ok := r[target]
	if !ok {
		srcs = make(map[uint64]struct{}, 1)
		r[target] = srcs
	}
	srcs[src] = struct{}{}
}

func (r reverse) remove(target, src uint64) {
	srcs, ok := r[target]
	if !ok {
		return
	}
	delete(srcs, src)
	if len(srcs) == 0 {
		delete(r, target)
	}
}

func (r reverse) sources(target uint64) []uint64 {
	srcs := r[target]
	if len(srcs) == 0 {
		return nil
	}
	out := make([]uint64, 0, len(srcs))
	for src := range srcs {
		out = append(out, src)
	}
	slices.Sort(out)
	return out
}
