package signal

import (
	"log"

	"ttdrail/ttd"
)

type setItem[D comparable] struct {
	tile ttd.TileIndex
	dir  D
}

// smallSet is a fixed-capacity bag of (tile, direction) pairs. Get pops the most recently
// added pair. Adding to a full set fails and marks the set overflowed until Reset.
type smallSet[D comparable] struct {
	name       string
	items      []setItem[D]
	overflowed bool
	log        *log.Logger
}

func newSmallSet[D comparable](name string, capacity int, logger *log.Logger) *smallSet[D] {
	return &smallSet[D]{name: name, items: make([]setItem[D], 0, capacity), log: logger}
}

func (s *smallSet[D]) Reset() {
	s.items = s.items[:0]
	s.overflowed = false
}

func (s *smallSet[D]) Overflowed() bool { return s.overflowed }
func (s *smallSet[D]) IsEmpty() bool    { return len(s.items) == 0 }
func (s *smallSet[D]) IsFull() bool     { return len(s.items) == cap(s.items) }
func (s *smallSet[D]) Items() int       { return len(s.items) }

// Remove deletes one occurrence of (tile, dir) and reports whether there was one.
func (s *smallSet[D]) Remove(tile ttd.TileIndex, dir D) bool {
	for i, it := range s.items {
		if it.tile == tile && it.dir == dir {
			last := len(s.items) - 1
			s.items[i] = s.items[last]
			s.items = s.items[:last]
			return true
		}
	}
	return false
}

func (s *smallSet[D]) IsIn(tile ttd.TileIndex, dir D) bool {
	for _, it := range s.items {
		if it.tile == tile && it.dir == dir {
			return true
		}
	}
	return false
}

func (s *smallSet[D]) Add(tile ttd.TileIndex, dir D) bool {
	if s.IsFull() {
		s.overflowed = true
		s.log.Printf("signal segment too complex: set %s is full (maximum %d)", s.name, cap(s.items))
		return false
	}
	s.items = append(s.items, setItem[D]{tile: tile, dir: dir})
	return true
}

func (s *smallSet[D]) Get() (ttd.TileIndex, D, bool) {
	if len(s.items) == 0 {
		var zero D
		return ttd.InvalidTile, zero, false
	}
	last := len(s.items) - 1
	it := s.items[last]
	s.items = s.items[:last]
	return it.tile, it.dir, true
}
