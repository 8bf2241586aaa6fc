//go:build !spinx_disable_backoff

package spinx

import (
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/spinx/internal/opt"
)

const (
	// backoffBuckets is the table size; addresses alias into it by hash.
	backoffBuckets = 128
	// backoffThreshold is the in-flight attempt count at which a bucket
	// starts delaying new attempts.
	backoffThreshold = 64
	// backoffUnitNs is the delay quantum in nanoseconds.
	backoffUnitNs = 100
)

// backoffBucket pads its counter out to a cache line so neighbouring
// buckets never share one.
type backoffBucket struct {
	n atomic.Uint32
	_ [(opt.CacheLineSize_ - unsafe.Sizeof(struct {
		n atomic.Uint32
	}{})%opt.CacheLineSize_) % opt.CacheLineSize_]byte
}

// Backoff throttles retry storms on contended atomic words.
//
// A table of counters tracks how many attempts are in flight per address
// class. BeforeAttempt registers an attempt and, once its class crosses a
// threshold, inserts a short timed spin so the caller joins the fray a little
// late; AfterAttempt deregisters it. The delay length is staggered by the
// attempt number, so throttled goroutines spread out instead of retrying in
// lockstep and failing together again.
//
// Implementation:
// An address selects one of 128 cache-line padded buckets through Thomas
// Wang's 64-bit integer hash. Unrelated addresses may share a bucket; that
// is accepted, since the table stays small and a false positive costs at
// most 500ns of spinning. Delays are timed spins with a CPU relax hint,
// never scheduler sleeps, so a bracketed attempt keeps its latency profile.
//
// Trade-offs:
//   - Counters are approximate. A goroutine that skips AfterAttempt inflates
//     its bucket until matching decrements drain it; the decrement clamps at
//     zero, so the reverse mismatch cannot wrap the counter.
//   - One table is 8KiB with 64-byte lines. Subsystems that want isolated
//     throttling keep separate tables.
//
// The zero value is ready to use. A Backoff must not be copied after first
// use.
type Backoff struct {
	_     noCopy
	table [backoffBuckets]backoffBucket
}

// BeforeAttempt records that the caller is about to attempt an atomic update
// of the word at addr, delaying the caller when the word's bucket is crowded.
// Every call must be paired with one AfterAttempt for the same address.
func (b *Backoff) BeforeAttempt(addr uintptr) {
	n := b.table[backoffBucketOf(addr)].n.Add(1)
	if d := backoffNanos(n); d > 0 {
		spinNanos(d)
	}
}

// AfterAttempt retires the attempt registered by the matching BeforeAttempt.
// The counter never goes below zero, so an unpaired call is absorbed rather
// than wrapped into a huge in-flight count.
func (b *Backoff) AfterAttempt(addr uintptr) {
	c := &b.table[backoffBucketOf(addr)].n
	for {
		n := c.Load()
		if n == 0 {
			return
		}
		if c.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// Do runs attempt, bracketed by BeforeAttempt/AfterAttempt on addr, until it
// reports success. attempt should perform one load-compute-store try and
// report whether the store took.
func (b *Backoff) Do(addr uintptr, attempt func() bool) {
	for {
		b.BeforeAttempt(addr)
		ok := attempt()
		b.AfterAttempt(addr)
		if ok {
			return
		}
	}
}

func backoffBucketOf(addr uintptr) uint64 {
	return hashWang64(uint64(addr)) % backoffBuckets
}

// backoffNanos converts an attempt number into the delay owed before that
// attempt: none below the threshold, then 100..500ns staggered by the count.
func backoffNanos(n uint32) int64 {
	if n < backoffThreshold {
		return 0
	}
	return int64(n%5+1) * backoffUnitNs
}

// hashWang64 is Thomas Wang's 64-bit integer hash. It avalanches well enough
// that nearby addresses, which differ only in a few low bits, land in
// unrelated buckets.
func hashWang64(key uint64) uint64 {
	key = ^key + key<<21
	key ^= key >> 24
	key = key + key<<3 + key<<8
	key ^= key >> 14
	key = key + key<<2 + key<<4
	key ^= key >> 28
	key += key << 31
	return key
}
