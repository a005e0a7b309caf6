package admission

import (
	"github.com/Borislavv/go-corr-cache/config"
)

// TinyLFU shards the filter by key so that each shard stays small and ages on its own.
// It is meant for a single caller, like the store it serves.
type TinyLFU struct {
	mask   uint64
	shards []filter
}

type filter struct {
	sketch sketch
	door   doorkeeper
}

func newTinyLFU(cfg *config.AdmissionControlCfg) *TinyLFU {
	perShard := cfg.Capacity / cfg.Shards
	if perShard < 1 {
		perShard = 1
	}
	counters := nextPow2(perShard)
	if counters < cfg.MinTableLenPerShard {
		counters = cfg.MinTableLenPerShard
	}

	f := &TinyLFU{
		mask:   uint64(cfg.Shards - 1),
		shards: make([]filter, cfg.Shards),
	}
	for i := range f.shards {
		f.shards[i].sketch.init(counters, cfg.SampleMultiplier)
		f.shards[i].door.init(counters * cfg.DoorBitsPerCounter)
	}
	return f
}

func (f *TinyLFU) shard(h uint64) *filter {
	return &f.shards[(h>>32)&f.mask]
}

func (f *TinyLFU) Record(key uint64) {
	h := mix64(key)
	sh := f.shard(h)
	if sh.door.seenOrAdd(h) {
		if sh.sketch.increment(h) {
			sh.door.reset()
		}
	}
}

// Allow admits candidate only when it was seen before and is strictly more frequent
// than victim. Ties keep the resident entry.
func (f *TinyLFU) Allow(candidate, victim uint64) bool {
	if candidate == victim {
		return true
	}
	ch := mix64(candidate)
	csh := f.shard(ch)
	if !csh.door.seen(ch) {
		return false
	}
	vh := mix64(victim)
	return csh.sketch.estimate(ch) > f.shard(vh).sketch.estimate(vh)
}

func (f *TinyLFU) Estimate(key uint64) uint8 {
	h := mix64(key)
	return f.shard(h).sketch.estimate(h)
}

func (f *TinyLFU) Reset() {
	for i := range f.shards {
		f.shards[i].sketch.age()
		f.shards[i].door.reset()
	}
}
