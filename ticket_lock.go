package spinx

import (
	"sync/atomic"
)

// TicketLock is a fair, FIFO (First-In-First-Out) spin-lock.
//
// Each acquirer draws a strictly increasing ticket number and waits until a
// "now serving" counter reaches it, so the lock is granted in the exact order
// the Lock() calls drew tickets. Unlike sync.Mutex or a plain CAS spinlock,
// there is no barging: a core that arrives first cannot lose the lock to a
// later arrival, and no waiter starves as long as every holder unlocks.
//
// Implementation:
// Two atomic counters, each significant modulo 1<<16:
//   - next:  count of tickets ever issued. Lock() draws with one fetch-add.
//   - owner: ticket currently allowed to hold the lock. Unlock() advances it
//     by one. Keeping owner in its own word means the release increment can
//     never carry into the ticket counter, without byte-order-dependent
//     sub-word stores.
//
// The lock is free iff next == owner; (next - owner) mod 1<<16 is the number
// of goroutines holding or waiting.
//
// Trade-offs:
//   - Waiting is a pure busy-wait with a CPU relax hint. Lock() never yields
//     the processor, never times out and cannot be cancelled; it is intended
//     for very small critical sections. Callers that want to degrade to a
//     cheaper waiting strategy under load can poll IsContended and decide for
//     themselves.
//   - At most 65535 goroutines may hold-or-wait on one instance at a time;
//     past that, tickets alias and mutual exclusion is lost. That bound is a
//     usage contract, not something the lock detects.
//
// The zero value is an unlocked lock. A TicketLock must not be copied after
// first use.
type TicketLock struct {
	_     noCopy
	next  atomic.Uint32
	owner atomic.Uint32
}

// TicketValue is a point-in-time copy of a TicketLock's state: the ticket
// counter in the high 16 bits, the now-serving counter in the low 16 bits.
type TicketValue uint32

// Unlocked reports whether the copied state describes an unlocked lock.
// It is a pure predicate over v; no atomic load takes place.
func (v TicketValue) Unlocked() bool {
	return uint16(v>>16) == uint16(v)
}

// Lock acquires the lock, spinning until every earlier ticket is served.
func (l *TicketLock) Lock() {
	t := uint16(l.next.Add(1) - 1)
	for uint16(l.owner.Load()) != t {
		spin()
	}
}

// TryLock acquires the lock iff it is free right now, without spinning.
// It returns false when the lock is held or when a concurrent acquirer wins
// the draw; a failed TryLock leaves the lock state untouched, and retrying
// is not guaranteed to ever succeed.
func (l *TicketLock) TryLock() bool {
	n := l.next.Load()
	if uint16(n) != uint16(l.owner.Load()) {
		return false
	}
	return l.next.CompareAndSwap(n, n+1)
}

// Unlock releases the lock, admitting the next ticket in line if one is
// waiting. It must only be called by the current holder; unlocking an unheld
// lock corrupts the serving counter.
func (l *TicketLock) Unlock() {
	l.owner.Add(1)
}

// Value returns a snapshot of the lock state for use with
// TicketValue.Unlocked. owner is read before next so that a concurrent
// release cannot make a held lock appear free.
func (l *TicketLock) Value() TicketValue {
	o := l.owner.Load()
	n := l.next.Load()
	return TicketValue(uint32(uint16(n))<<16 | uint32(uint16(o)))
}

// IsLocked reports whether the lock is held at the moment of the snapshot.
// The answer may be stale by the time the caller acts on it.
func (l *TicketLock) IsLocked() bool {
	return !l.Value().Unlocked()
}

// IsContended reports whether more than one goroutine is associated with the
// lock (the holder plus at least one waiter). Like IsLocked it is advisory:
// use it to choose a waiting strategy, not to reason about exclusivity.
func (l *TicketLock) IsContended() bool {
	v := l.Value()
	return int16(uint16(v>>16)-uint16(v)) > 1
}
