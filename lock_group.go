package spinx

import (
	"github.com/llxisdsh/pb"
)

// LockGroup serializes work on arbitrary keys (string, int, struct, etc.).
// It dynamically manages a set of locks associated with keys.
//
// Features:
//   - Infinite Keys: No need to pre-allocate locks.
//   - Auto-Cleanup: A key's lock is removed from memory once it is unlocked
//     and nobody else is waiting on it.
//   - Low Overhead: Keys live in a sharded concurrent map.
//
// Usage:
//
//	var group LockGroup[string]
//	group.Lock(orderID)
//	// Critical section for this order
//	group.Unlock(orderID)
//
// Implementation Note:
// Entries are reference counted so deletion cannot race with a goroutine
// that already queued on the key's lock. The lock per key is the
// build-selected SpinLock, so waiters on one key are served in arrival
// order.
type LockGroup[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *groupEntry]
}

type groupEntry struct {
	mu SpinLock
	// ref counts lockers that hold or wait for mu. It is only touched
	// inside ProcessEntry, which serializes per key.
	ref int32
}

// Lock acquires the key's lock, creating it on first use. Waiters on the
// same key are admitted in arrival order; distinct keys do not contend.
func (g *LockGroup[K]) Lock(k K) {
	e := g.enter(k)
	e.mu.Lock()
}

// TryLock acquires the key's lock iff nobody holds it, without blocking.
func (g *LockGroup[K]) TryLock(k K) bool {
	e := g.enter(k)
	if e.mu.TryLock() {
		return true
	}
	g.retire(k)
	return false
}

// Unlock releases the key's lock and drops the key once the last locker is
// gone. Unlocking a key that is not held is a no-op.
func (g *LockGroup[K]) Unlock(k K) {
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	e.mu.Unlock()
	g.retire(k)
}

// enter pins the key's entry, creating it when absent.
func (g *LockGroup[K]) enter(k K) *groupEntry {
	e, _ := g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			ge := &groupEntry{ref: 1}
			return &pb.EntryOf[K, *groupEntry]{Value: ge}, ge, false
		},
	)
	return e
}

// retire unpins the key's entry, deleting it when the last pin drops.
func (g *LockGroup[K]) retire(k K) {
	g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l == nil {
				return nil, nil, false
			}
			l.Value.ref--
			if l.Value.ref <= 0 {
				return nil, nil, true
			}
			return l, l.Value, true
		},
	)
}
