package table

import "github.com/Borislavv/go-corr-cache/internal/shared/random"

// Hint carries caller knowledge about an inserted entry to the policy.
type Hint struct {
	// Useful marks a correlation that already proved itself; the cascade policy gives it
	// one extra chance before eviction.
	Useful bool

	// Priority protects entries under the priority policy: lower values are evicted first.
	Priority uint8
}

// Policy selects victims for a table. Slots are flat indices set*ways+way.
//
// The table calls Admit when a slot becomes valid, Update when a present key is
// overwritten, Touch on caller-reported hits and Remove when a slot is invalidated.
// Victim is only asked for full sets and must return a way in [0, ways).
type Policy interface {
	Admit(slot int, h Hint)
	Update(slot int, h Hint)
	Touch(slot int)
	Remove(slot int)
	Victim(set int) (way int)
}

// Demoter is implemented by policies able to age out an entry on demand.
type Demoter interface {
	Demote(slot int)
}

// Peeker is implemented by policies able to name the next victim without side effects.
type Peeker interface {
	Peek(set int) (way int)
}

// Hinter is implemented by policies whose per-slot state can be carried over to another
// table. Useful is never reported back.
type Hinter interface {
	Hint(slot int) Hint
}

// Orderer is implemented by policies with a meaningful eviction order.
// Order visits the ways of a set from the oldest to the newest.
type Orderer interface {
	Order(set int, fn func(way int) bool)
}

// Factory builds a policy for the geometry of a table.
type Factory func(sets, ways int) Policy

// Random evicts a uniformly chosen way.
type Random struct {
	ways int
	rnd  *random.Source
}

// NewRandom returns a factory of uniform-random policies seeded with seed.
func NewRandom(seed uint64) Factory {
	return func(_, ways int) Policy {
		return &Random{ways: ways, rnd: random.NewSource(seed)}
	}
}

func (*Random) Admit(int, Hint)  {}
func (*Random) Update(int, Hint) {}
func (*Random) Touch(int)        {}
func (*Random) Remove(int)       {}

func (r *Random) Victim(int) int { return r.rnd.Intn(r.ways) }
