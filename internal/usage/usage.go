// Package usage classifies recorded correlation sources as useful or useless.
// A source is useful when at least one prediction hop went through it before it was
// evicted from the store.
package usage

import (
	"fmt"

	"github.com/Borislavv/go-corr-cache/config"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type Tracker interface {
	// Recorded starts tracking src. Already tracked sources keep their flag.
	Recorded(src uint64)
	// Hit marks src as used by a prediction.
	Hit(src uint64)
	// Evicted stops tracking src and classifies it.
	Evicted(src uint64)
	Stats() Stats
}

// Stats are cumulative counters.
type Stats struct {
	Tracked int
	Useful  uint64 // evicted after at least one prediction hit
	Useless uint64 // evicted without ever being used
	Dropped uint64 // forgotten because the tracker was full
}

func New(cfg *config.UsageCfg) (Tracker, error) {
	if !cfg.Enabled() {
		return NoOp{}, nil
	}
	t := &LRUTracker{}
	lru, err := simplelru.NewLRU[uint64, bool](cfg.Capacity, t.onDrop)
	if err != nil {
		return nil, fmt.Errorf("usage tracker: %w", err)
	}
	t.lru = lru
	return t, nil
}

// LRUTracker bounds its memory with an LRU of source -> used flag.
type LRUTracker struct {
	lru      *simplelru.LRU[uint64, bool]
	stats    Stats
	removing bool
}

func (t *LRUTracker) Recorded(src uint64) {
	if _, ok := t.lru.Get(src); !ok {
		t.lru.Add(src, false)
	}
}

func (t *LRUTracker) Hit(src uint64) {
	if used, ok := t.lru.Peek(src); ok && !used {
		t.lru.Add(src, true)
	}
}

func (t *LRUTracker) Evicted(src uint64) {
	used, ok := t.lru.Peek(src)
	if !ok {
		return
	}
	if used {
		t.stats.Useful++
	} else {
		t.stats.Useless++
	}
	t.removing = true
	t.lru.Remove(src)
	t.removing = false
}

func (t *LRUTracker) Stats() Stats {
	s := t.stats
	s.Tracked = t.lru.Len()
	return s
}

// onDrop fires for capacity evictions and explicit removals; only the former count.
func (t *LRUTracker) onDrop(uint64, bool) {
	if !t.removing {
		t.stats.Dropped++
	}
}

// NoOp tracks nothing.
type NoOp struct{}

func (NoOp) Recorded(uint64) {}
func (NoOp) Hit(uint64)      {}
func (NoOp) Evicted(uint64)  {}
func (NoOp) Stats() Stats    { return Stats{} }
