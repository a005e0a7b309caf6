package store

// counters are cumulative and owned by the single caller of the store.
type counters struct {
	records       uint64
	overwrites    uint64
	evictions     uint64
	admitted      uint64
	rejected      uint64
	predictions   uint64
	predictedHops uint64
	resizes       uint64
	demotions     uint64
	agings        uint64
}

// Metrics is a copy of the store counters.
type Metrics struct {
	Records       uint64 // accepted Record calls
	Overwrites    uint64 // records replacing the target of a present source
	Evictions     uint64 // mappings displaced by records or dropped by a shrink
	Admitted      uint64 // new sources allowed to evict
	Rejected      uint64 // new sources refused by admission control
	Predictions   uint64
	PredictedHops uint64
	Resizes       uint64
	Demotions     uint64 // mappings aged out on demand
	Agings        uint64 // admission history agings
}

func (s *Store) Metrics() Metrics {
	c := s.counters
	return Metrics{
		Records:       c.records,
		Overwrites:    c.overwrites,
		Evictions:     c.evictions,
		Admitted:      c.admitted,
		Rejected:      c.rejected,
		Predictions:   c.predictions,
		PredictedHops: c.predictedHops,
		Resizes:       c.resizes,
		Demotions:     c.demotions,
		Agings:        c.agings,
	}
}
