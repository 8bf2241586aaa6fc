package spinx

import (
	_ "unsafe" // for go:linkname
)

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// spin issues a CPU relax hint (PAUSE or the architectural equivalent)
// between polls of a wait condition. It does not give up the processor:
// falling back to a scheduler-friendly strategy under sustained contention
// is the caller's decision (see IsContended), not the primitive's.
func spin() {
	runtime_doSpin()
}

// spinNanos busy-waits for at least d nanoseconds. It is a timed spin, not
// a sleep; the calling goroutine keeps its processor for the whole window.
func spinNanos(d int64) {
	deadline := runtime_nanotime() + d
	for runtime_nanotime() < deadline {
		runtime_doSpin()
	}
}

// nolint:all
//
//go:linkname runtime_doSpin sync.runtime_doSpin
//goland:noinspection ALL
func runtime_doSpin()

// nolint:all
//
//go:linkname runtime_nanotime runtime.nanotime
//goland:noinspection ALL
func runtime_nanotime() int64
