// Package store keeps "source -> next" correlations in banks of associative tables and
// answers chained predictions over them.
package store

import (
	"errors"
	"fmt"

	"github.com/Borislavv/go-corr-cache/config"
	"github.com/Borislavv/go-corr-cache/internal/admission"
	"github.com/Borislavv/go-corr-cache/internal/table"
	"github.com/rs/zerolog"
)

// ErrInvalidBanks may be returned from [New].
var ErrInvalidBanks = errors.New("invalid bank count")

// Store is a sharded correlation table. It is driven by a single caller: there are no
// locks and every operation is bounded by the chain degree or the bank associativity.
type Store struct {
	cfg      *config.StoreCfg
	logger   zerolog.Logger
	admit    admission.Controller
	banks    []*table.Table[uint64]
	mask     uint64
	ways     int
	reverse  reverse
	onEvict  func(src, next uint64)
	counters counters
}

func New(cfg *config.StoreCfg, admit admission.Controller, logger zerolog.Logger) (*Store, error) {
	if cfg.Banks <= 0 || cfg.Banks&(cfg.Banks-1) != 0 {
		return nil, fmt.Errorf("%w: %d is not a positive power of two", ErrInvalidBanks, cfg.Banks)
	}
	if admit == nil {
		admit = admission.NoOp{}
	}

	s := &Store{
		cfg:     cfg,
		logger:  logger.With().Str("component", "store").Logger(),
		admit:   admit,
		mask:    uint64(cfg.Banks - 1),
		reverse: make(reverse),
	}
	banks, err := s.build(cfg.Ways)
	if err != nil {
		return nil, err
	}
	s.banks, s.ways = banks, cfg.Ways

	s.logger.Debug().
		Int("banks", cfg.Banks).
		Int("ways", cfg.Ways).
		Int("sets_per_bank", cfg.SetsPerBank).
		Str("policy", string(cfg.Policy)).
		Msg("store initialized")

	return s, nil
}

// OnEvict registers fn to be called whenever a mapping leaves the store for a reason
// other than being overwritten by the same source.
func (s *Store) OnEvict(fn func(src, next uint64)) { s.onEvict = fn }

func (s *Store) Ways() int  { return s.ways }
func (s *Store) Banks() int { return len(s.banks) }

func (s *Store) Len() int {
	n := 0
	for _, b := range s.banks {
		n += b.Len()
	}
	return n
}

// Record stores src -> next and returns the source key it evicted, 0 when none.
func (s *Store) Record(src, next uint64, useful bool) (evicted uint64) {
	return s.RecordWith(src, next, table.Hint{Useful: useful})
}

// RecordWith is Record with a full policy hint.
func (s *Store) RecordWith(src, next uint64, h table.Hint) (evicted uint64) {
	evicted, _ = s.record(src, next, h)
	return evicted
}

func (s *Store) record(src, next uint64, h table.Hint) (evicted uint64, ok bool) {
	b := s.bank(src)

	s.admit.Record(src)
	if _, present := b.Find(src); !present {
		if victim, full := b.Peek(src); full {
			if !s.admit.Allow(src, victim.Key) {
				s.counters.rejected++
				if e := s.logger.Debug(); e.Enabled() {
					e.Uint64("source", src).
						Uint8("source_freq", s.admit.Estimate(src)).
						Uint64("victim", victim.Key).
						Uint8("victim_freq", s.admit.Estimate(victim.Key)).
						Msg("record rejected")
				}
				return 0, false
			}
			s.counters.admitted++
		}
	}

	old := b.InsertWith(src, next, h)
	s.counters.records++

	switch {
	case !old.Valid:
	case old.Key == src:
		s.counters.overwrites++
		s.reverse.remove(old.Payload, src)
	default:
		s.counters.evictions++
		s.reverse.remove(old.Payload, old.Key)
		s.evicted(old.Key, old.Payload)
		evicted, ok = old.Key, true
	}
	s.reverse.add(next, src)

	return evicted, ok
}

// Predict follows start -> v1 -> v2 ... touching every hit. The chain stops on a miss,
// on a zero value, after MaxDegree hits, or right after a value equal to the key it was
// found under. Duplicates are kept.
func (s *Store) Predict(start uint64) []uint64 {
	out := make([]uint64, 0, s.cfg.MaxDegree)
	key := start
	for len(out) < s.cfg.MaxDegree {
		b := s.bank(key)
		next, ok := b.Find(key)
		if !ok || next == 0 {
			break
		}
		b.Touch(key)
		out = append(out, next)
		if next == key {
			break
		}
		key = next
	}

	s.counters.predictions++
	s.counters.predictedHops += uint64(len(out))
	return out
}

// Lookup returns the next key recorded for src without touching eviction state.
func (s *Store) Lookup(src uint64) (uint64, bool) {
	return s.bank(src).Find(src)
}

// Erase drops the mapping of src.
func (s *Store) Erase(src uint64) bool {
	old, ok := s.bank(src).Erase(src)
	if ok {
		s.reverse.remove(old.Payload, src)
		s.evicted(src, old.Payload)
	}
	return ok
}

// Demote makes the mapping of src the preferred victim of its bank, for callers that
// consumed a prediction and do not expect it again soon. It reports false when src is
// absent or the eviction policy cannot demote.
func (s *Store) Demote(src uint64) bool {
	if !s.bank(src).Demote(src) {
		return false
	}
	s.counters.demotions++
	return true
}

// Age halves the admission frequency history so that sources popular in past epochs
// stop shielding their mappings.
func (s *Store) Age() {
	s.admit.Reset()
	s.counters.agings++
}

// Triggers returns the sources currently mapped to target, ascending.
func (s *Store) Triggers(target uint64) []uint64 {
	return s.reverse.sources(target)
}

// Walk visits every live mapping bank by bank, oldest first where the policy orders.
func (s *Store) Walk(fn func(src, next uint64) bool) {
	for _, b := range s.banks {
		stopped := false
		b.Walk(func(e table.Entry[uint64]) bool {
			if !fn(e.Key, e.Payload) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
	}
}

func (s *Store) bank(key uint64) *table.Table[uint64] {
	return s.banks[(key^(key>>13))&s.mask]
}

func (s *Store) evicted(src, next uint64) {
	if s.onEvict != nil {
		s.onEvict(src, next)
	}
}

func (s *Store) build(ways int) ([]*table.Table[uint64], error) {
	banks := make([]*table.Table[uint64], s.cfg.Banks)
	for i := range banks {
		t, err := table.New[uint64](ways*s.cfg.SetsPerBank, ways, s.factory(i))
		if err != nil {
			return nil, fmt.Errorf("bank %d: %w", i, err)
		}
		banks[i] = t
	}
	return banks, nil
}

func (s *Store) factory(bank int) table.Factory {
	switch s.cfg.Policy {
	case config.PolicyRecency:
		return table.NewRecency()
	case config.PolicyPriority:
		return table.NewPriority()
	case config.PolicyRandom:
		return table.NewRandom(s.cfg.Seed + uint64(bank))
	default:
		return table.NewCascade()
	}
}
