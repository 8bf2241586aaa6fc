package spinx

import (
	"sync"
)

// spinLock is the capability surface shared by both lock strategies. It pins
// the contract the build-selected SpinLock alias must satisfy, whichever
// strategy a build picks.
type spinLock interface {
	sync.Locker
	TryLock() bool
	IsLocked() bool
	IsContended() bool
}

var (
	_ spinLock = (*TicketLock)(nil)
	_ spinLock = (*QueuedLock)(nil)
)
