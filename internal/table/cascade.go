package table

const (
	// MaxConfidence caps the per-slot confidence counter.
	MaxConfidence = 1
	// MaxRetry is the retry value at which a slot is no longer spared.
	MaxRetry = 3
)

const none = -1

// Cascade keeps an insertion order per set and spares entries that still have retries
// left: the oldest slot is evicted only once its retry counter reached MaxRetry,
// otherwise it is bumped and moved to the newest end. Admitting a useful entry and
// touching an entry both lower the counter, so proven entries survive more sweeps.
//
// The order lives in an arena of slot indices with intrusive links. A single victim
// search spares at most ways slots and then evicts the oldest one unconditionally.
type Cascade struct {
	ways       int
	confidence []uint8
	retry      []uint8
	prev       []int32
	next       []int32
	newest     []int32 // per set
	oldest     []int32 // per set

	spared uint64
	forced uint64
}

// NewCascade returns a factory of cascading-retry policies.
func NewCascade() Factory {
	return func(sets, ways int) Policy {
		n := sets * ways
		c := &Cascade{
			ways:       ways,
			confidence: make([]uint8, n),
			retry:      make([]uint8, n),
			prev:       make([]int32, n),
			next:       make([]int32, n),
			newest:     make([]int32, sets),
			oldest:     make([]int32, sets),
		}
		for i := range c.prev {
			c.prev[i], c.next[i] = none, none
		}
		for i := range c.newest {
			c.newest[i], c.oldest[i] = none, none
		}
		return c
	}
}

func (c *Cascade) Admit(slot int, h Hint) {
	c.confidence[slot] = MaxConfidence
	c.retry[slot] = MaxRetry
	if h.Useful {
		c.retry[slot]--
	}
	c.pushNewest(slot)
}

// Update leaves the order and counters as they are.
func (c *Cascade) Update(int, Hint) {}

func (c *Cascade) Touch(slot int) {
	if c.retry[slot] > 0 {
		c.retry[slot]--
	}
}

func (c *Cascade) Remove(slot int) {
	c.unlink(slot)
	c.confidence[slot] = 0
	c.retry[slot] = 0
}

func (c *Cascade) Victim(set int) int {
	base := set * c.ways
	for spares := 0; ; spares++ {
		s := int(c.oldest[set])
		if c.retry[s] >= MaxRetry {
			return s - base
		}
		if spares == c.ways {
			c.forced++
			return s - base
		}
		c.retry[s]++
		c.unlink(s)
		c.pushNewest(s)
		c.spared++
	}
}

// Peek names the oldest slot, the first one a victim search looks at.
func (c *Cascade) Peek(set int) int {
	return int(c.oldest[set]) - set*c.ways
}

func (c *Cascade) Order(set int, fn func(way int) bool) {
	base := set * c.ways
	for s := c.oldest[set]; s != none; s = c.prev[s] {
		if !fn(int(s) - base) {
			return
		}
	}
}

// Spared is the total number of entries given another chance.
func (c *Cascade) Spared() uint64 { return c.spared }

// Forced is the number of searches that ended on the termination guard.
func (c *Cascade) Forced() uint64 { return c.forced }

// Retry exposes the retry counter of a slot.
func (c *Cascade) Retry(slot int) uint8 { return c.retry[slot] }

// links: next points towards the oldest end, prev towards the newest end.
func (c *Cascade) pushNewest(slot int) {
	set := slot / c.ways
	head := c.newest[set]
	c.prev[slot] = none
	c.next[slot] = head
	if head != none {
		c.prev[head] = int32(slot)
	} else {
		c.oldest[set] = int32(slot)
	}
	c.newest[set] = int32(slot)
}

func (c *Cascade) unlink(slot int) {
	set := slot / c.ways
	p, n := c.prev[slot], c.next[slot]
	if p == none && n == none && c.newest[set] != int32(slot) {
		return // not linked
	}
	if p != none {
		c.next[p] = n
	} else {
		c.newest[set] = n
	}
	if n != none {
		c.prev[n] = p
	} else {
		c.oldest[set] = p
	}
	c.prev[slot], c.next[slot] = none, none
}
