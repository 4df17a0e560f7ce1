// Package scheduler arms one-shot timers keyed by purpose and identity.
// Timers live in memory and are not re-armed after a restart; expired
// records left behind are swept by the background cleaner instead.
package scheduler

import (
	"sync"
	"time"
)

type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New() *Scheduler {
	return &Scheduler{timers: make(map[string]*time.Timer)}
}

// ArmOnce schedules f to run after delay under the given key, replacing any
// timer already armed for that key. f runs on its own goroutine.
func (s *Scheduler) ArmOnce(key string, delay time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// only forget the key if it still maps to this timer; ArmOnce
		// may have replaced it between firing and locking
		if s.timers[key] == t {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		f()
	})
	s.timers[key] = t
}

// Cancel stops the timer for key if one is armed. A timer that already
// fired cannot be stopped; its callback is expected to re-check state.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// Armed reports whether a timer is currently armed for key.
func (s *Scheduler) Armed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}
