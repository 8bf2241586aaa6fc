package spinx

import (
	"github.com/llxisdsh/pb"
)

// RWLockGroup allows shared reader-writer locking on arbitrary keys.
// It matches the surface of LockGroup but adds RLock/RUnlock.
//
// Features:
//   - RLock/RUnlock for shared read access per key.
//   - Lock/Unlock for exclusive access per key.
//   - Infinite keys and auto-cleanup, as in LockGroup.
//
// Usage:
//
//	var group RWLockGroup[int64]
//
//	// Readers share the account
//	group.RLock(accountID)
//	balance := account.Balance
//	group.RUnlock(accountID)
//
//	// A writer excludes them
//	group.Lock(accountID)
//	account.Balance += amount
//	group.Unlock(accountID)
type RWLockGroup[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *rwGroupEntry]
}

type rwGroupEntry struct {
	mu RWSpinLock
	// ref counts lockers of either kind. Only touched inside ProcessEntry,
	// which serializes per key.
	ref int32
}

// Lock acquires the key's lock for writing.
func (g *RWLockGroup[K]) Lock(k K) {
	g.enter(k).mu.Lock()
}

// Unlock releases the key's write lock, dropping the key once the last
// locker is gone.
func (g *RWLockGroup[K]) Unlock(k K) {
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	e.mu.Unlock()
	g.retire(k)
}

// RLock acquires the key's lock for reading. Readers of one key share it;
// a queued writer diverts later readers behind itself.
func (g *RWLockGroup[K]) RLock(k K) {
	g.enter(k).mu.RLock()
}

// RUnlock releases one read hold on the key.
func (g *RWLockGroup[K]) RUnlock(k K) {
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	e.mu.RUnlock()
	g.retire(k)
}

func (g *RWLockGroup[K]) enter(k K) *rwGroupEntry {
	e, _ := g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *rwGroupEntry]) (*pb.EntryOf[K, *rwGroupEntry], *rwGroupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			ge := &rwGroupEntry{ref: 1}
			return &pb.EntryOf[K, *rwGroupEntry]{Value: ge}, ge, false
		},
	)
	return e
}

func (g *RWLockGroup[K]) retire(k K) {
	g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *rwGroupEntry]) (*pb.EntryOf[K, *rwGroupEntry], *rwGroupEntry, bool) {
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
