package spinx

import (
	"sync/atomic"

	"github.com/llxisdsh/spinx/internal/opt"
)

// FairSemaphore is a counting semaphore that admits strictly in arrival order.
//
// Standard semaphores (like golang.org/x/sync/semaphore) optimize for
// throughput and may allow barging (new arrivals stealing permits from queued
// waiters), which can starve unlucky goroutines under steady load.
// FairSemaphore assigns permits to waiters in the order they arrived.
//
// Implementation:
// A SpinLock guards the permit count and an intrusive waiter list, so even
// the internal lock acquisition is fair. Blocked waiters park on the
// runtime's goroutine semaphore; Release wakes from the queue head for as
// long as the permit count covers the head's request.
type FairSemaphore struct {
	_       noCopy
	mu      SpinLock
	permits int64
	head    *fairWaiter
	tail    *fairWaiter
	nwait   atomic.Int32
}

type fairWaiter struct {
	next *fairWaiter
	n    int64
	sema opt.Sema
}

// NewFairSemaphore returns a semaphore holding the given number of permits.
func NewFairSemaphore(permits int64) *FairSemaphore {
	return &FairSemaphore{permits: permits}
}

// Acquire takes n permits, blocking behind earlier arrivals until the count
// covers the request. Acquiring n <= 0 returns immediately.
func (s *FairSemaphore) Acquire(n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	// An empty queue is a precondition for taking permits directly; with
	// waiters present even a covered request must line up behind them.
	if s.head == nil && s.permits >= n {
		s.permits -= n
		s.mu.Unlock()
		return
	}
	w := &fairWaiter{n: n}
	if s.tail == nil {
		s.head = w
	} else {
		s.tail.next = w
	}
	s.tail = w
	s.nwait.Add(1)
	s.mu.Unlock()
	w.sema.Acquire()
}

// TryAcquire takes n permits without blocking. It fails when permits are
// short or any waiter is queued; it never barges past the queue.
func (s *FairSemaphore) TryAcquire(n int64) bool {
	if n <= 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head != nil || s.permits < n {
		return false
	}
	s.permits -= n
	return true
}

// Release returns n permits and wakes queued waiters, in order, while the
// count covers them.
func (s *FairSemaphore) Release(n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.permits += n
	s.admitLocked()
	s.mu.Unlock()
}

// admitLocked pops and wakes waiters from the queue head for as long as the
// permit count covers the head's request. Caller holds mu.
func (s *FairSemaphore) admitLocked() {
	for s.head != nil && s.permits >= s.head.n {
		w := s.head
		s.permits -= w.n
		if s.head = w.next; s.head == nil {
			s.tail = nil
		}
		s.nwait.Add(-1)
		w.sema.Release()
	}
}

// Waiters reports how many goroutines are queued. Advisory: the answer may
// be stale on return.
func (s *FairSemaphore) Waiters() int {
	return int(s.nwait.Load())
}
