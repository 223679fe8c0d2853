package controller

import (
	"sync"

	"izmetro/internal/client/view"
)

// sequencer hands out increasing tokens per region. A response may only be rendered while
// its token is still the newest one issued for that region, so a slow stale response can
// never paint over a newer one.
type sequencer struct {
	mu     sync.Mutex
	latest map[view.Region]uint64
}

func newSequencer() *sequencer {
	return &sequencer{latest: make(map[view.Region]uint64)}
}

// next issues a token for region, invalidating every earlier one.
func (s *sequencer) next(region view.Region) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[region]++
	return s.latest[region]
}

// commit runs render only if token is still current for region. The check and the render
// happen under one lock so two responses cannot interleave.
func (s *sequencer) commit(region view.Region, token uint64, render func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[region] != token {
		return false
	}
	view.Guard(region, render)
	return true
}
