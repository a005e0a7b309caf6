// Package corrcache is a self-tuning correlation cache: it learns which key tends to
// follow which in an access stream, predicts chains of upcoming keys and resizes itself
// at epoch boundaries according to how useful those predictions turned out to be.
package corrcache

import (
	"fmt"
	"io"
	"slices"

	"github.com/Borislavv/go-corr-cache/config"
	"github.com/Borislavv/go-corr-cache/internal/admission"
	"github.com/Borislavv/go-corr-cache/internal/controller"
	"github.com/Borislavv/go-corr-cache/internal/store"
	"github.com/Borislavv/go-corr-cache/internal/table"
	"github.com/Borislavv/go-corr-cache/internal/telemetry"
	"github.com/Borislavv/go-corr-cache/internal/usage"
	"github.com/Borislavv/go-corr-cache/model"
	"github.com/rs/zerolog"
)

// Partition is notified with the host cache ways left after every resize.
type Partition = controller.Partition

// Hint qualifies a recorded correlation for the eviction policy: Useful feeds the
// cascade retry budget, Priority protects the entry under the priority policy.
type Hint = table.Hint

// Cache wires the store, its capacity controller and the optional admission filter and
// usage tracker behind the host entry points. It is meant for a single caller.
type Cache struct {
	cfg        *config.Cache
	logger     zerolog.Logger
	store      *store.Store
	controller controller.Controller
	usage      usage.Tracker
	telemetry  *telemetry.Logs

	last    uint64
	hasLast bool

	accesses    uint64
	predictions uint64
	predicted   uint64
}

// New builds a cache from cfg. A nil cfg selects config.Default. A nil partition
// discards capacity notifications.
func New(cfg *config.Cache, partition Partition, logger zerolog.Logger) (*Cache, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.New(&cfg.Store, admission.New(cfg.AdmissionControl), logger)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}
	tracker, err := usage.New(cfg.Usage)
	if err != nil {
		return nil, fmt.Errorf("build usage tracker: %w", err)
	}
	st.OnEvict(func(src, _ uint64) { tracker.Evicted(src) })

	return &Cache{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		controller: controller.New(cfg.Controller, st, partition, logger),
		usage:      tracker,
		telemetry:  telemetry.New(cfg.Logs, logger),
	}, nil
}

// Open loads the YAML configuration at path and builds a cache logging to w.
func Open(path string, partition Partition, w io.Writer) (*Cache, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logger, err := telemetry.NewLogger(cfg.Logs, w)
	if err != nil {
		return nil, err
	}
	return New(cfg, partition, logger)
}

// Access handles one host event and returns the keys worth prefetching, ascending and
// without duplicates. The event is counted by the capacity controller and, when it is a
// miss or a useful hit, the previous such key is trained to point at it. Plain hits
// neither train nor move the previous key, except for the very first event.
func (c *Cache) Access(ev model.Event) []uint64 {
	c.accesses++
	if _, end := c.controller.Observe(ev.Miss, ev.Useful); end {
		c.store.Age()
		c.telemetry.Epoch(c.controller.Last(), c.Snapshot())
	}

	out := c.Predict(ev.Key)
	if len(out) > 1 {
		slices.Sort(out)
		out = slices.Compact(out)
	}
	c.predicted += uint64(len(out))

	switch {
	case ev.Miss || ev.Useful:
		if c.hasLast {
			c.RecordWith(c.last, ev.Key, Hint{Useful: ev.Useful, Priority: ev.Priority})
		}
		c.last, c.hasLast = ev.Key, true
	case !c.hasLast:
		c.last, c.hasLast = ev.Key, true
	}

	return out
}

// Record trains src -> next directly. It returns the evicted source, 0 when none.
func (c *Cache) Record(src, next uint64, useful bool) (evicted uint64) {
	return c.RecordWith(src, next, Hint{Useful: useful})
}

// RecordWith is Record with a full eviction hint.
func (c *Cache) RecordWith(src, next uint64, h Hint) (evicted uint64) {
	evicted = c.store.RecordWith(src, next, h)
	if got, ok := c.store.Lookup(src); ok && got == next {
		c.usage.Recorded(src)
	}
	return evicted
}

// Demote ages out the correlation of key once its prediction has been consumed.
// Only the recency policy supports it; other policies report false.
func (c *Cache) Demote(key uint64) bool {
	return c.store.Demote(key)
}

// Predict returns the raw prediction chain starting at key, duplicates included.
func (c *Cache) Predict(key uint64) []uint64 {
	chain := c.store.Predict(key)
	c.predictions++
	src := key
	for _, next := range chain {
		c.usage.Hit(src)
		src = next
	}
	return chain
}

// Triggers returns the sources currently predicting target.
func (c *Cache) Triggers(target uint64) []uint64 {
	return c.store.Triggers(target)
}

func (c *Cache) Ways() int { return c.store.Ways() }

// ControllerState exposes the capacity controller state.
func (c *Cache) ControllerState() controller.State { return c.controller.State() }

// Digest summarizes the live correlations, see store.Store.Digest.
func (c *Cache) Digest() uint64 { return c.store.Digest() }

func (c *Cache) Snapshot() model.Snapshot {
	var (
		m  = c.store.Metrics()
		st = c.controller.State()
		u  = c.usage.Stats()
	)
	return model.Snapshot{
		Epoch:          st.Epoch,
		Ways:           c.store.Ways(),
		Banks:          c.store.Banks(),
		Entries:        c.store.Len(),
		Accesses:       c.accesses,
		Predictions:    c.predictions,
		Predicted:      c.predicted,
		Records:        m.Records,
		Evictions:      m.Evictions,
		Rejected:       m.Rejected,
		Demotions:      m.Demotions,
		Resizes:        m.Resizes,
		Grows:          st.Grows,
		Shrinks:        st.Shrinks,
		Holds:          st.Holds,
		UsefulEntries:  u.Useful,
		UselessEntries: u.Useless,
	}
}
