package store

import (
	"github.com/Borislavv/go-corr-cache/internal/table"
	"github.com/rs/zerolog"
)

// Resize rebuilds every bank with ways ways and copies the live mappings over, oldest
// first, so that the newest mappings survive a shrink. Copies keep their priority but
// their usefulness is forgotten. The new banks replace the old ones only once fully built.
func (s *Store) Resize(ways int) error {
	if ways == s.ways {
		return nil
	}

	banks, err := s.build(ways)
	if err != nil {
		return err
	}

	var dropped []table.Entry[uint64]
	for i, old := range s.banks {
		dst := banks[i]
		old.Walk(func(e table.Entry[uint64]) bool {
			if ev := dst.InsertWith(e.Key, e.Payload, old.Hint(e.Key)); ev.Valid && ev.Key != e.Key {
				dropped = append(dropped, ev)
			}
			return true
		})
	}

	prev := s.ways
	s.banks, s.ways = banks, ways
	s.reverse = make(reverse, len(s.reverse))
	s.Walk(func(src, next uint64) bool {
		s.reverse.add(next, src)
		return true
	})

	s.counters.resizes++
	s.counters.evictions += uint64(len(dropped))
	for _, e := range dropped {
		s.evicted(e.Key, e.Payload)
	}

	event := s.logger.Info().
		Int("from_ways", prev).
		Int("to_ways", ways).
		Int("entries", s.Len()).
		Int("dropped", len(dropped))
	if s.logger.GetLevel() <= zerolog.DebugLevel {
		event = event.Uint64("digest", s.Digest())
	}
	event.Msg("store resized")

	return nil
}
