package spinx

import (
	"sync/atomic"
)

// QueuedLock is a fair, FIFO spin-lock with queue-based (MCS style) waiting.
//
// Like TicketLock it grants the lock in strict arrival order, but each waiter
// spins on a flag in its own queue node instead of on one shared counter.
// Under heavy contention that keeps waiters' cache lines quiet: a release
// invalidates the next waiter's line only, not every waiter's.
//
// Implementation:
// tail points at the most recently arrived node. Lock() swaps its own node
// in; a non-nil predecessor means the lock is taken, so the node links itself
// behind the predecessor and spins on its own wait flag. Unlock() hands off
// to the successor, or CASes tail back to nil when nobody queued. holder
// remembers the node at the head of the queue so Unlock needs no argument; it
// is written only by the goroutine that owns the lock.
//
// Trade-offs:
//   - Each Lock/TryLock allocates one small queue node; TicketLock is 8 bytes
//     and allocation-free. The node buys local spinning.
//   - Waiting is a pure busy-wait with a CPU relax hint, exactly as in
//     TicketLock: no timeout, no cancellation, no yielding.
//
// The zero value is an unlocked lock. A QueuedLock must not be copied after
// first use.
type QueuedLock struct {
	_      noCopy
	tail   atomic.Pointer[queueNode]
	holder atomic.Pointer[queueNode]
}

type queueNode struct {
	wait atomic.Uint32
	next atomic.Pointer[queueNode]
}

// Lock acquires the lock, spinning until every earlier arrival has released.
func (l *QueuedLock) Lock() {
	n := &queueNode{}
	if pred := l.tail.Swap(n); pred != nil {
		// Raise the wait flag before the predecessor can see the node,
		// or its Unlock could hand off before the spin below starts.
		n.wait.Store(1)
		pred.next.Store(n)
		for n.wait.Load() != 0 {
			spin()
		}
	}
	l.holder.Store(n)
}

// TryLock acquires the lock iff nobody holds or waits for it, with a single
// CAS and no spinning. A false return leaves the queue untouched.
func (l *QueuedLock) TryLock() bool {
	n := &queueNode{}
	if l.tail.CompareAndSwap(nil, n) {
		l.holder.Store(n)
		return true
	}
	return false
}

// Unlock releases the lock, handing it to the next queued goroutine if one
// exists. It must only be called by the current holder.
func (l *QueuedLock) Unlock() {
	n := l.holder.Load()
	succ := n.next.Load()
	if succ == nil {
		if l.tail.CompareAndSwap(n, nil) {
			return
		}
		// A successor swapped itself into tail but has not linked in yet;
		// wait out the window.
		for {
			if succ = n.next.Load(); succ != nil {
				break
			}
			spin()
		}
	}
	succ.wait.Store(0)
}

// IsLocked reports whether any goroutine holds or waits for the lock.
// Advisory: the answer may be stale on return.
func (l *QueuedLock) IsLocked() bool {
	return l.tail.Load() != nil
}

// IsContended reports whether goroutines beyond the holder are queued.
// Advisory; during a handoff it may briefly report contention for a lock
// whose new holder is alone.
func (l *QueuedLock) IsContended() bool {
	t := l.tail.Load()
	return t != nil && t != l.holder.Load()
}
