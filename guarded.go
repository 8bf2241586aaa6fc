package spinx

import (
	"sync/atomic"
	"unsafe"
)

// UpdateUint64 atomically applies f to the word at addr, retrying the CAS
// until it wins. Retries are bracketed by b, so a storm of updaters on the
// same word backs off instead of failing in lockstep. It returns the value
// the winning attempt stored.
//
// f may run several times and must be a pure function of its argument.
//
// This suits hot shared words (statistics, state masks, version stamps)
// where many goroutines update and the per-word cost of a lock is too high.
func UpdateUint64(b *Backoff, addr *uint64, f func(uint64) uint64) uint64 {
	a := uintptr(unsafe.Pointer(addr))
	var next uint64
	b.Do(a, func() bool {
		cur := atomic.LoadUint64(addr)
		next = f(cur)
		return atomic.CompareAndSwapUint64(addr, cur, next)
	})
	return next
}

// UpdateUint32 is UpdateUint64 for 32-bit words.
func UpdateUint32(b *Backoff, addr *uint32, f func(uint32) uint32) uint32 {
	a := uintptr(unsafe.Pointer(addr))
	var next uint32
	b.Do(a, func() bool {
		cur := atomic.LoadUint32(addr)
		next = f(cur)
		return atomic.CompareAndSwapUint32(addr, cur, next)
	})
	return next
}
