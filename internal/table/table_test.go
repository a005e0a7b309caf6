package table

import (
	"errors"
	"github.com/stretchr/testify/require"
	"testing"
)

// setKeys returns n distinct keys falling into set index of a table with sets sets.
func setKeys(sets, index, n int) []uint64 {
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(index + i*sets)
	}
	return keys
}

// TestNew_InvalidGeometry rejects non-positive and non-divisible geometries.
func TestNew_InvalidGeometry(t *testing.T) {
	for _, tc := range []struct{ capacity, ways int }{
		{0, 4}, {16, 0}, {-4, 4}, {10, 4},
	} {
		_, err := New[uint64](tc.capacity, tc.ways, NewRecency())
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidGeometry), "capacity=%d ways=%d", tc.capacity, tc.ways)
	}
}

// TestNew_Geometry derives sets from capacity and ways.
func TestNew_Geometry(t *testing.T) {
	tbl, err := New[uint64](64, 4, nil)
	require.NoError(t, err)
	require.Equal(t, 16, tbl.Sets())
	require.Equal(t, 4, tbl.Ways())
	require.Equal(t, 64, tbl.Capacity())
	require.Equal(t, 0, tbl.Len())
	require.IsType(t, &Random{}, tbl.Policy())
}

// TestTable_InsertFind stores and returns payloads by key.
func TestTable_InsertFind(t *testing.T) {
	tbl, err := New[uint64](16, 4, NewRecency())
	require.NoError(t, err)

	old := tbl.Insert(42, 7)
	require.False(t, old.Valid)

	v, ok := tbl.Find(42)
	require.True(t, ok)
	require.Equal(t, uint64(7), v)

	_, ok = tbl.Find(43)
	require.False(t, ok)
	require.Equal(t, 1, tbl.Len())
}

// TestTable_InsertOverwrite overwrites in place and returns the previous entry of the same key.
func TestTable_InsertOverwrite(t *testing.T) {
	tbl, err := New[uint64](16, 4, NewRecency())
	require.NoError(t, err)

	tbl.Insert(42, 7)
	old := tbl.Insert(42, 8)

	require.True(t, old.Valid)
	require.Equal(t, uint64(42), old.Key)
	require.Equal(t, uint64(7), old.Payload)
	require.Equal(t, uint64(42%4), old.Index)
	require.Equal(t, uint64(42/4), old.Tag)
	require.Equal(t, 1, tbl.Len())

	v, _ := tbl.Find(42)
	require.Equal(t, uint64(8), v)
}

// TestTable_InsertEvictsFromFullSet returns the evicted entry once a set is full.
func TestTable_InsertEvictsFromFullSet(t *testing.T) {
	tbl, err := New[uint64](16, 4, NewRecency())
	require.NoError(t, err)

	keys := setKeys(tbl.Sets(), 1, 5)
	for _, k := range keys[:4] {
		require.False(t, tbl.Insert(k, k).Valid)
	}
	old := tbl.Insert(keys[4], keys[4])
	require.True(t, old.Valid)
	require.Equal(t, keys[0], old.Key)
	require.Equal(t, 4, tbl.Len())

	// Other sets are unaffected.
	require.False(t, tbl.Insert(2, 2).Valid)
	require.Equal(t, 5, tbl.Len())
}

// TestTable_Erase invalidates the entry and frees its way.
func TestTable_Erase(t *testing.T) {
	tbl, err := New[uint64](8, 4, NewRecency())
	require.NoError(t, err)

	tbl.Insert(3, 30)
	old, ok := tbl.Erase(3)
	require.True(t, ok)
	require.Equal(t, uint64(30), old.Payload)
	require.Equal(t, 0, tbl.Len())

	_, ok = tbl.Find(3)
	require.False(t, ok)

	_, ok = tbl.Erase(3)
	require.False(t, ok)

	// The freed way is reused without eviction.
	for _, k := range setKeys(tbl.Sets(), 1, 4) {
		require.False(t, tbl.Insert(k, k).Valid)
	}
}

// TestTable_RecencyScenario evicts A after B was touched in a four way set filled with A..D.
func TestTable_RecencyScenario(t *testing.T) {
	tbl, err := New[string](4, 4, NewRecency())
	require.NoError(t, err)

	const a, b, c, d, e = 1, 2, 3, 4, 5
	tbl.Insert(a, "A")
	tbl.Insert(b, "B")
	tbl.Insert(c, "C")
	tbl.Insert(d, "D")
	require.True(t, tbl.Touch(b))

	old := tbl.Insert(e, "E")
	require.True(t, old.Valid)
	require.Equal(t, "A", old.Payload)

	for _, k := range []uint64{b, c, d, e} {
		_, ok := tbl.Find(k)
		require.True(t, ok, "key %d", k)
	}
}

// TestTable_RecencyFIFO evicts in insertion order when nothing is touched.
func TestTable_RecencyFIFO(t *testing.T) {
	tbl, err := New[uint64](32, 4, NewRecency())
	require.NoError(t, err)

	keys := setKeys(tbl.Sets(), 3, 10)
	var evicted []uint64
	for _, k := range keys {
		if old := tbl.Insert(k, k); old.Valid {
			evicted = append(evicted, old.Key)
		}
	}
	require.Equal(t, keys[:6], evicted)
}

// TestTable_FindDoesNotTouch keeps recency metadata untouched on Find.
func TestTable_FindDoesNotTouch(t *testing.T) {
	tbl, err := New[uint64](2, 2, NewRecency())
	require.NoError(t, err)

	tbl.Insert(1, 1)
	tbl.Insert(2, 2)
	_, ok := tbl.Find(1)
	require.True(t, ok)

	require.Equal(t, uint64(1), tbl.Insert(3, 3).Key)
}

// TestTable_Demote makes the demoted key the next victim.
func TestTable_Demote(t *testing.T) {
	tbl, err := New[uint64](4, 4, NewRecency())
	require.NoError(t, err)

	for k := uint64(1); k <= 4; k++ {
		tbl.Insert(k, k)
	}
	require.True(t, tbl.Demote(3))
	require.False(t, tbl.Demote(99))

	require.Equal(t, uint64(3), tbl.Insert(5, 5).Key)
}

// TestTable_DemoteUnsupported reports false for policies without demotion.
func TestTable_DemoteUnsupported(t *testing.T) {
	tbl, err := New[uint64](4, 4, NewCascade())
	require.NoError(t, err)
	tbl.Insert(1, 1)
	require.False(t, tbl.Demote(1))
}

// TestTable_Peek previews the victim without mutating the table.
func TestTable_Peek(t *testing.T) {
	tbl, err := New[uint64](4, 4, NewRecency())
	require.NoError(t, err)

	for k := uint64(1); k <= 3; k++ {
		tbl.Insert(k, k)
	}
	_, ok := tbl.Peek(4)
	require.False(t, ok, "free way, nothing to evict")

	tbl.Insert(4, 4)
	_, ok = tbl.Peek(2)
	require.False(t, ok, "present key overwrites in place")

	victim, ok := tbl.Peek(5)
	require.True(t, ok)
	require.Equal(t, uint64(1), victim.Key)

	victim, ok = tbl.Peek(5)
	require.True(t, ok)
	require.Equal(t, uint64(1), victim.Key)
	require.Equal(t, uint64(1), tbl.Insert(5, 5).Key)
}

// TestTable_PeekUnsupported reports false for the random policy.
func TestTable_PeekUnsupported(t *testing.T) {
	tbl, err := New[uint64](1, 1, NewRandom(1))
	require.NoError(t, err)
	tbl.Insert(1, 1)
	_, ok := tbl.Peek(2)
	require.False(t, ok)
}

// TestTable_WalkOrder visits entries oldest first within a set.
func TestTable_WalkOrder(t *testing.T) {
	tbl, err := New[uint64](4, 4, NewRecency())
	require.NoError(t, err)

	for k := uint64(1); k <= 4; k++ {
		tbl.Insert(k, k)
	}
	tbl.Touch(1)

	var seen []uint64
	tbl.Walk(func(e Entry[uint64]) bool {
		seen = append(seen, e.Key)
		return true
	})
	require.Equal(t, []uint64{2, 3, 4, 1}, seen)

	seen = seen[:0]
	tbl.Walk(func(e Entry[uint64]) bool {
		seen = append(seen, e.Key)
		return len(seen) < 2
	})
	require.Equal(t, []uint64{2, 3}, seen)
}

// TestTable_WalkUnordered visits every valid entry in way order for the random policy.
func TestTable_WalkUnordered(t *testing.T) {
	tbl, err := New[uint64](8, 2, NewRandom(7))
	require.NoError(t, err)

	for k := uint64(0); k < 6; k++ {
		tbl.Insert(k, k)
	}
	n := 0
	tbl.Walk(func(e Entry[uint64]) bool {
		require.True(t, e.Valid)
		n++
		return true
	})
	require.Equal(t, tbl.Len(), n)
}

// TestRandom_VictimInRange picks ways inside the set and is deterministic per seed.
func TestRandom_VictimInRange(t *testing.T) {
	a := NewRandom(11)(4, 8)
	b := NewRandom(11)(4, 8)
	for i := 0; i < 1000; i++ {
		w := a.Victim(i % 4)
		require.GreaterOrEqual(t, w, 0)
		require.Less(t, w, 8)
		require.Equal(t, w, b.Victim(i%4))
	}
}
