package model

// Snapshot is a point-in-time view of a cache for hosts and telemetry.
type Snapshot struct {
	Epoch   uint64
	Ways    int
	Banks   int
	Entries int

	Accesses    uint64
	Predictions uint64
	Predicted   uint64 // keys handed out after deduplication
	Records     uint64
	Evictions   uint64
	Rejected    uint64
	Demotions   uint64
	Resizes     uint64

	Grows   uint64
	Shrinks uint64
	Holds   uint64

	UsefulEntries  uint64
	UselessEntries uint64
}
