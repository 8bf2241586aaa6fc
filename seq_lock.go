package spinx

import (
	"sync/atomic"

	"github.com/llxisdsh/spinx/internal/opt"
)

// SeqLock publishes tear-free snapshots of a value to lock-free readers.
//
// A read samples the sequence, copies the value, and retries if a writer
// moved the sequence meanwhile, so readers never block writers and write
// nothing shared. Writers serialize on a SpinLock and flip the sequence odd
// before touching the value, even after. This is the classic sequence-lock
// construction: a counter guarding a payload, with the writer side
// serialized by the spinlock.
//
// It suits read-mostly values a few words wide (configuration snapshots,
// clock pairs, statistics tuples) where reader latency matters more than
// writer latency. T must not contain pointers to data the writers mutate in
// place; only the value itself is protected.
//
// Under the race detector reads degrade to locking: the in-window value
// copy is a sequence-validated race the detector cannot prove benign.
//
// The zero value is ready to use and reads as T's zero value. A SeqLock
// must not be copied after first use.
type SeqLock[T any] struct {
	_   noCopy
	seq atomic.Uint32
	mu  SpinLock
	val T
}

// Read returns a consistent snapshot, spinning through writer windows.
func (l *SeqLock[T]) Read() T {
	if opt.Race_ {
		l.mu.Lock()
		v := l.val
		l.mu.Unlock()
		return v
	}
	for {
		s1 := l.seq.Load()
		if s1&1 == 0 {
			v := l.val
			if l.seq.Load() == s1 {
				return v
			}
		}
		spin()
	}
}

// Write publishes a new value.
func (l *SeqLock[T]) Write(v T) {
	l.mu.Lock()
	l.seq.Add(1)
	l.val = v
	l.seq.Add(1)
	l.mu.Unlock()
}

// Update applies f to the current value under the writer lock and publishes
// the result, returning it. f must not call back into the lock.
func (l *SeqLock[T]) Update(f func(T) T) T {
	l.mu.Lock()
	v := f(l.val)
	l.seq.Add(1)
	l.val = v
	l.seq.Add(1)
	l.mu.Unlock()
	return v
}
