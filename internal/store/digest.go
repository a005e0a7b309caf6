package store

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Digest summarizes the live mappings independently of their placement: two stores
// holding the same pairs have the same digest whatever their ways or eviction order.
func (s *Store) Digest() uint64 {
	var (
		sum uint64
		buf [16]byte
	)
	s.Walk(func(src, next uint64) bool {
		binary.LittleEndian.PutUint64(buf[:8], src)
		binary.LittleEndian.PutUint64(buf[8:], next)
		sum += xxh3.Hash(buf[:])
		return true
	})
	return sum
}
