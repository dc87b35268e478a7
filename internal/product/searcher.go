package product

import (
	"context"
	"sync"
	"time"
)

// Searcher debounces free-text searches against the server. Each keystroke
// bumps a monotonically increasing sequence and reschedules a single timer;
// at resolution time the response is applied only when its sequence is still
// the latest, so a stale response can never overwrite a fresher one
// (last-write-wins by issue order, not arrival order).
type Searcher struct {
	store *Store
	delay time.Duration

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
	base  Filter
}

func NewSearcher(store *Store, delay time.Duration) *Searcher {
	return &Searcher{store: store, delay: delay}
}

// SetBase fixes the category/sort/page-size the debounced queries carry.
func (s *Searcher) SetBase(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = f
}

// Query schedules a server search for term after the debounce delay,
// superseding any still-pending query.
func (s *Searcher) Query(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	seq := s.seq

	f := s.base
	f.Search = term
	f.Page = 1

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		// Checked again when the response resolves; both checks read the
		// same counter.
		_ = s.store.fetch(context.Background(), f, func() bool {
			return s.latest(seq)
		})
	})
}

// Flush cancels any pending query without issuing it.
func (s *Searcher) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Searcher) latest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}
