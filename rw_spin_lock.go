package spinx

import (
	"sync/atomic"
)

// Reader/writer state packed into RWSpinLock.cnts. The low byte is the
// writer-held flag, the next bit marks a waiting writer, and readers count
// from bit 9 up.
const (
	rwLocked  uint32 = 0x0ff
	rwWaiting uint32 = 0x100
	rwWMask          = rwLocked | rwWaiting
	rwRShift         = 9
	rwRBias   uint32 = 1 << rwRShift
)

// RWSpinLock is a fair, queue-based reader-writer spin-lock.
//
// Uncontended readers and writers take one atomic RMW. Once anyone has to
// wait, waiters of both kinds line up on an internal SpinLock, so admission
// is in arrival order: a stream of readers cannot starve a writer, and a
// writer hands over to the readers that queued behind it rather than to
// late arrivals.
//
// Implementation:
// A single word holds the reader count alongside a writer byte and a
// writer-waiting bit. Readers add a bias and are done if no writer is
// active or queued; otherwise they back the bias out and requeue through
// the wait lock. Writers try to swing the whole word from zero; otherwise
// they queue, announce themselves with the waiting bit, let readers drain,
// and then trade the waiting bit for the writer byte.
//
// Trade-offs:
//   - Waiting is a pure busy-wait, as everywhere in this package. Critical
//     sections must stay short.
//   - Read locks must not be taken recursively: the inner acquisition can
//     queue behind a writer that waits on the outer one.
//
// The zero value is an unlocked lock. An RWSpinLock must not be copied
// after first use.
type RWSpinLock struct {
	_    noCopy
	cnts atomic.Uint32
	wait SpinLock
}

// RLock acquires the lock for reading.
func (l *RWSpinLock) RLock() {
	if cnts := l.cnts.Add(rwRBias); cnts&rwWMask == 0 {
		return
	}
	l.rlockSlow()
}

func (l *RWSpinLock) rlockSlow() {
	// Back out the optimistic bias and queue up behind any writers.
	l.cnts.Add(^uint32(rwRBias - 1))
	l.wait.Lock()
	l.cnts.Add(rwRBias)
	for l.cnts.Load()&rwLocked != 0 {
		spin()
	}
	l.wait.Unlock()
}

// TryRLock acquires the lock for reading iff no writer holds or awaits it.
func (l *RWSpinLock) TryRLock() bool {
	for {
		cnts := l.cnts.Load()
		if cnts&rwWMask != 0 {
			return false
		}
		if l.cnts.CompareAndSwap(cnts, cnts+rwRBias) {
			return true
		}
	}
}

// RUnlock releases one read hold.
func (l *RWSpinLock) RUnlock() {
	l.cnts.Add(^uint32(rwRBias - 1))
}

// Lock acquires the lock for writing.
func (l *RWSpinLock) Lock() {
	if l.cnts.CompareAndSwap(0, rwLocked) {
		return
	}
	l.lockSlow()
}

func (l *RWSpinLock) lockSlow() {
	l.wait.Lock()
	if !l.cnts.CompareAndSwap(0, rwLocked) {
		// Announce the queued writer so new readers divert to the queue,
		// wait for in-flight readers to drain, then swap the waiting bit
		// for the held byte in one step.
		l.cnts.Add(rwWaiting)
		for {
			if c := l.cnts.Load(); c == rwWaiting && l.cnts.CompareAndSwap(c, rwLocked) {
				break
			}
			spin()
		}
	}
	l.wait.Unlock()
}

// TryLock acquires the lock for writing iff nobody holds or awaits it.
func (l *RWSpinLock) TryLock() bool {
	return l.cnts.CompareAndSwap(0, rwLocked)
}

// Unlock releases the write hold.
func (l *RWSpinLock) Unlock() {
	l.cnts.Add(^uint32(rwLocked - 1))
}

// IsLocked reports whether any goroutine holds the lock, for reading or
// writing. Advisory: the answer may be stale on return.
func (l *RWSpinLock) IsLocked() bool {
	return l.cnts.Load() != 0
}
