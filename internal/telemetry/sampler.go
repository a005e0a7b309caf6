package telemetry

import "github.com/Borislavv/go-corr-cache/model"

// deltaSnapshot converts cumulative snapshots to per-epoch deltas.
// Gauges (ways, banks, entries) are taken from cur.
func deltaSnapshot(prev, cur model.Snapshot) model.Snapshot {
	return model.Snapshot{
		Epoch:   cur.Epoch,
		Ways:    cur.Ways,
		Banks:   cur.Banks,
		Entries: cur.Entries,

		Accesses:    delta(prev.Accesses, cur.Accesses),
		Predictions: delta(prev.Predictions, cur.Predictions),
		Predicted:   delta(prev.Predicted, cur.Predicted),
		Records:     delta(prev.Records, cur.Records),
		Evictions:   delta(prev.Evictions, cur.Evictions),
		Rejected:    delta(prev.Rejected, cur.Rejected),
		Demotions:   delta(prev.Demotions, cur.Demotions),
		Resizes:     delta(prev.Resizes, cur.Resizes),

		Grows:   delta(prev.Grows, cur.Grows),
		Shrinks: delta(prev.Shrinks, cur.Shrinks),
		Holds:   delta(prev.Holds, cur.Holds),

		UsefulEntries:  delta(prev.UsefulEntries, cur.UsefulEntries),
		UselessEntries: delta(prev.UselessEntries, cur.UselessEntries),
	}
}

// delta treats a counter that went backwards as reset.
func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
