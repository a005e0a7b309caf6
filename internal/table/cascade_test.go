package table

import (
	"github.com/stretchr/testify/require"
	"testing"
)

// evictionDelay counts how many fresh inserts it takes to evict target.
func evictionDelay(t *testing.T, ways int, useful bool) int {
	t.Helper()
	tbl, err := New[uint64](ways, ways, NewCascade())
	require.NoError(t, err)

	for k := uint64(1); k < uint64(ways); k++ {
		tbl.Insert(k, k)
	}
	const target = 1000
	tbl.InsertWith(target, target, Hint{Useful: useful})

	for i := 1; i <= 10*ways; i++ {
		if old := tbl.Insert(uint64(2000+i), 0); old.Valid && old.Key == target {
			return i
		}
	}
	t.Fatalf("target was never evicted")
	return 0
}

// TestCascade_FreshEntriesFIFO evicts non-useful entries in insertion order.
func TestCascade_FreshEntriesFIFO(t *testing.T) {
	tbl, err := New[uint64](4, 4, NewCascade())
	require.NoError(t, err)

	var evicted []uint64
	for k := uint64(1); k <= 8; k++ {
		if old := tbl.Insert(k, k); old.Valid {
			evicted = append(evicted, old.Key)
		}
	}
	require.Equal(t, []uint64{1, 2, 3, 4}, evicted)
	require.Equal(t, uint64(0), tbl.Policy().(*Cascade).Spared())
}

// TestCascade_UsefulSparedOnce gives a useful entry one extra chance.
func TestCascade_UsefulSparedOnce(t *testing.T) {
	tbl, err := New[uint64](2, 2, NewCascade())
	require.NoError(t, err)

	tbl.InsertWith(1, 1, Hint{Useful: true})
	tbl.Insert(2, 2)

	require.Equal(t, uint64(2), tbl.Insert(3, 3).Key)
	require.Equal(t, uint64(1), tbl.Policy().(*Cascade).Spared())
	require.Equal(t, uint64(1), tbl.Insert(4, 4).Key)
}

// TestCascade_TouchProtects lowers the retry counter on hits.
func TestCascade_TouchProtects(t *testing.T) {
	tbl, err := New[uint64](2, 2, NewCascade())
	require.NoError(t, err)

	tbl.Insert(1, 1)
	tbl.Insert(2, 2)
	require.True(t, tbl.Touch(1))
	require.True(t, tbl.Touch(1))
	require.Equal(t, uint8(1), tbl.Policy().(*Cascade).Retry(0))

	require.Equal(t, uint64(2), tbl.Insert(3, 3).Key)
}

// TestCascade_TouchFloorsAtZero never wraps the retry counter.
func TestCascade_TouchFloorsAtZero(t *testing.T) {
	tbl, err := New[uint64](1, 1, NewCascade())
	require.NoError(t, err)

	tbl.Insert(1, 1)
	for i := 0; i < 10; i++ {
		tbl.Touch(1)
	}
	require.Equal(t, uint8(0), tbl.Policy().(*Cascade).Retry(0))
}

// TestCascade_UsefulNeverEvictedEarlier checks that a useful admission survives at least as long.
func TestCascade_UsefulNeverEvictedEarlier(t *testing.T) {
	for _, ways := range []int{1, 2, 4, 8, 16} {
		plain := evictionDelay(t, ways, false)
		useful := evictionDelay(t, ways, true)
		require.GreaterOrEqual(t, useful, plain, "ways=%d", ways)
	}
}

// TestCascade_TerminatesWhenAllProtected evicts the least-recently-spared entry after ways spares.
func TestCascade_TerminatesWhenAllProtected(t *testing.T) {
	tbl, err := New[uint64](4, 4, NewCascade())
	require.NoError(t, err)

	for k := uint64(1); k <= 4; k++ {
		tbl.Insert(k, k)
		for i := 0; i < MaxRetry; i++ {
			tbl.Touch(k)
		}
	}

	old := tbl.Insert(5, 5)
	require.True(t, old.Valid)
	require.Equal(t, uint64(1), old.Key)

	c := tbl.Policy().(*Cascade)
	require.Equal(t, uint64(1), c.Forced())
	require.Equal(t, uint64(4), c.Spared())
	require.Equal(t, 4, tbl.Len())
}

// TestCascade_WalkOrder visits oldest first and reflects spares.
func TestCascade_WalkOrder(t *testing.T) {
	tbl, err := New[uint64](3, 3, NewCascade())
	require.NoError(t, err)

	tbl.InsertWith(1, 1, Hint{Useful: true})
	tbl.Insert(2, 2)
	tbl.Insert(3, 3)
	tbl.Insert(4, 4) // spares 1, evicts 2

	var seen []uint64
	tbl.Walk(func(e Entry[uint64]) bool {
		seen = append(seen, e.Key)
		return true
	})
	require.Equal(t, []uint64{3, 1, 4}, seen)
}

// TestCascade_EraseUnlinks keeps the order consistent after erasures.
func TestCascade_EraseUnlinks(t *testing.T) {
	tbl, err := New[uint64](3, 3, NewCascade())
	require.NoError(t, err)

	tbl.Insert(1, 1)
	tbl.Insert(2, 2)
	tbl.Insert(3, 3)
	_, ok := tbl.Erase(2)
	require.True(t, ok)
	tbl.Insert(4, 4)

	var seen []uint64
	tbl.Walk(func(e Entry[uint64]) bool {
		seen = append(seen, e.Key)
		return true
	})
	require.Equal(t, []uint64{1, 3, 4}, seen)
	require.Equal(t, uint64(1), tbl.Insert(5, 5).Key)
}
