package table

// Priority evicts the lowest-priority way of a set. Among equal priorities it picks the
// most recently used one (largest clock), which keeps older low-priority entries around;
// equal clocks fall back to the lowest way.
type Priority struct {
	*Recency
	prio []uint8
}

// NewPriority returns a factory of priority policies. Priorities come from Hint.Priority.
func NewPriority() Factory {
	return func(sets, ways int) Policy {
		return &Priority{Recency: newRecency(sets, ways), prio: make([]uint8, sets*ways)}
	}
}

func (p *Priority) Admit(slot int, h Hint) {
	p.prio[slot] = h.Priority
	p.stamp(slot)
}

func (p *Priority) Update(slot int, h Hint) {
	p.prio[slot] = h.Priority
	p.stamp(slot)
}

func (p *Priority) Remove(slot int) {
	p.prio[slot] = 0
	p.clock[slot] = 0
}

func (p *Priority) Hint(slot int) Hint { return Hint{Priority: p.prio[slot]} }

func (p *Priority) Victim(set int) int { return p.Peek(set) }

func (p *Priority) Peek(set int) int {
	base := set * p.ways
	victim := 0
	for w := 1; w < p.ways; w++ {
		s, v := base+w, base+victim
		switch {
		case p.prio[s] < p.prio[v]:
			victim = w
		case p.prio[s] == p.prio[v] && p.clock[s] > p.clock[v]:
			victim = w
		}
	}
	return victim
}

// Order visits ways in victim preference order.
func (p *Priority) Order(set int, fn func(way int) bool) {
	base := set * p.ways
	ways := make([]int, p.ways)
	for w := range ways {
		ways[w] = w
	}
	for i := 1; i < len(ways); i++ {
		for j := i; j > 0 && p.before(base+ways[j], base+ways[j-1]); j-- {
			ways[j], ways[j-1] = ways[j-1], ways[j]
		}
	}
	for _, w := range ways {
		if !fn(w) {
			return
		}
	}
}

func (p *Priority) before(a, b int) bool {
	if p.prio[a] != p.prio[b] {
		return p.prio[a] < p.prio[b]
	}
	return p.clock[a] > p.clock[b]
}
