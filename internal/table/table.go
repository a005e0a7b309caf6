// Package table implements a fixed-capacity set-associative table.
//
// A key is split into a set index (key % sets) and a tag (key / sets). Every set keeps
// a content-addressable map from tag to way, so lookups cost one map probe. Victim
// selection for a full set is delegated to a Policy chosen at construction time.
package table

// Entry is the state of one slot.
type Entry[P any] struct {
	Key     uint64
	Index   uint64
	Tag     uint64
	Valid   bool
	Payload P
}

// Table is a set-associative table of payloads P. It is not safe for concurrent use.
type Table[P any] struct {
	sets    int
	ways    int
	len     int
	entries []Entry[P]       // sets*ways slots, set-major
	cams    []map[uint64]int // per set: tag -> way
	policy  Policy
}

// New builds a table of capacity slots grouped into sets of ways slots.
// A nil factory selects uniform-random eviction.
func New[P any](capacity, ways int, factory Factory) (*Table[P], error) {
	if capacity <= 0 || ways <= 0 || capacity%ways != 0 {
		return nil, geometryError(capacity, ways)
	}
	if factory == nil {
		factory = NewRandom(0)
	}

	sets := capacity / ways
	t := &Table[P]{
		sets:    sets,
		ways:    ways,
		entries: make([]Entry[P], capacity),
		cams:    make([]map[uint64]int, sets),
		policy:  factory(sets, ways),
	}
	for i := range t.cams {
		t.cams[i] = make(map[uint64]int, ways)
	}
	return t, nil
}

func (t *Table[P]) Len() int       { return t.len }
func (t *Table[P]) Capacity() int  { return len(t.entries) }
func (t *Table[P]) Sets() int      { return t.sets }
func (t *Table[P]) Ways() int      { return t.ways }
func (t *Table[P]) Policy() Policy { return t.policy }

// Find returns the payload stored for key. Eviction metadata is left untouched.
func (t *Table[P]) Find(key uint64) (payload P, found bool) {
	if s, ok := t.slot(key); ok {
		return t.entries[s].Payload, true
	}
	return payload, false
}

// Insert stores payload under key with an empty hint. See InsertWith.
func (t *Table[P]) Insert(key uint64, payload P) Entry[P] {
	return t.InsertWith(key, payload, Hint{})
}

// InsertWith stores payload under key and returns the previous state of the used slot:
//   - the old entry of key itself when key was present (overwritten in place);
//   - the evicted entry when the set was full;
//   - an invalid entry when a free way was taken.
func (t *Table[P]) InsertWith(key uint64, payload P, h Hint) Entry[P] {
	index, tag := t.locate(key)
	cam := t.cams[index]
	base := int(index) * t.ways

	if way, ok := cam[tag]; ok {
		e := &t.entries[base+way]
		old := *e
		e.Payload = payload
		t.policy.Update(base+way, h)
		return old
	}

	way := -1
	if len(cam) < t.ways {
		for w := 0; w < t.ways; w++ {
			if !t.entries[base+w].Valid {
				way = w
				break
			}
		}
	}
	if way < 0 {
		way = t.policy.Victim(int(index))
	}

	s := base + way
	old := t.entries[s]
	if old.Valid {
		delete(cam, old.Tag)
		t.policy.Remove(s)
		t.len--
	}

	t.entries[s] = Entry[P]{Key: key, Index: index, Tag: tag, Valid: true, Payload: payload}
	cam[tag] = way
	t.policy.Admit(s, h)
	t.len++

	return old
}

// Erase invalidates key and returns its last state.
func (t *Table[P]) Erase(key uint64) (Entry[P], bool) {
	s, ok := t.slot(key)
	if !ok {
		return Entry[P]{}, false
	}
	old := t.entries[s]
	delete(t.cams[old.Index], old.Tag)
	t.entries[s] = Entry[P]{}
	t.policy.Remove(s)
	t.len--
	return old, true
}

// Touch reports a hit on key to the policy.
func (t *Table[P]) Touch(key uint64) bool {
	s, ok := t.slot(key)
	if ok {
		t.policy.Touch(s)
	}
	return ok
}

// Demote makes key the preferred victim of its set if the policy supports it.
func (t *Table[P]) Demote(key uint64) bool {
	d, can := t.policy.(Demoter)
	if !can {
		return false
	}
	s, ok := t.slot(key)
	if ok {
		d.Demote(s)
	}
	return ok
}

// Hint returns the policy state of key that survives a copy into another table.
// It is the zero Hint for absent keys and for policies without one.
func (t *Table[P]) Hint(key uint64) Hint {
	h, can := t.policy.(Hinter)
	if !can {
		return Hint{}
	}
	if s, ok := t.slot(key); ok {
		return h.Hint(s)
	}
	return Hint{}
}

// Peek previews the entry an insert of key would evict, without mutating anything.
// It reports false when no eviction would happen or the policy cannot preview.
func (t *Table[P]) Peek(key uint64) (Entry[P], bool) {
	p, can := t.policy.(Peeker)
	if !can {
		return Entry[P]{}, false
	}
	index, tag := t.locate(key)
	cam := t.cams[index]
	if _, hit := cam[tag]; hit || len(cam) < t.ways {
		return Entry[P]{}, false
	}
	return t.entries[int(index)*t.ways+p.Peek(int(index))], true
}

// Walk visits valid entries set by set. Within a set the policy order is used when
// available (oldest first), otherwise way order. Returning false stops the walk.
func (t *Table[P]) Walk(fn func(e Entry[P]) bool) {
	o, ordered := t.policy.(Orderer)
	for set := 0; set < t.sets; set++ {
		base := set * t.ways
		if ordered {
			stopped := false
			o.Order(set, func(way int) bool {
				if e := t.entries[base+way]; e.Valid && !fn(e) {
					stopped = true
					return false
				}
				return true
			})
			if stopped {
				return
			}
			continue
		}
		for way := 0; way < t.ways; way++ {
			if e := t.entries[base+way]; e.Valid && !fn(e) {
				return
			}
		}
	}
}

func (t *Table[P]) locate(key uint64) (index, tag uint64) {
	n := uint64(t.sets)
	return key % n, key / n
}

func (t *Table[P]) slot(key uint64) (int, bool) {
	index, tag := t.locate(key)
	way, ok := t.cams[index][tag]
	if !ok {
		return 0, false
	}
	return int(index)*t.ways + way, true
}
