//go:build race

package opt

import (
	"sync"
)

const Race_ = true

// Sema under the race detector trades the runtime semaphore for a mutex and
// condition variable. The linkname fast path gives the detector no
// happens-before edge between Release and Acquire; this one does, so race
// runs report user races instead of false positives in the parking layer.
type Sema struct {
	mu   sync.Mutex
	cond sync.Cond
	n    uint32
}

func (s *Sema) Acquire() {
	s.mu.Lock()
	if s.cond.L == nil {
		s.cond.L = &s.mu
	}
	for s.n == 0 {
		s.cond.Wait()
	}
	s.n--
	s.mu.Unlock()
}

func (s *Sema) Release() {
	s.mu.Lock()
	if s.cond.L == nil {
		s.cond.L = &s.mu
	}
	s.n++
	s.cond.Signal()
	s.mu.Unlock()
}
