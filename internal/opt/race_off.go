//go:build !race

package opt

import (
	_ "unsafe" // for go:linkname
)

const Race_ = false

// Sema is a zero-allocation parking primitive wrapping the runtime's
// goroutine semaphore. It has no counter semantics of its own beyond the
// runtime's: Release banks a wakeup, Acquire takes one or parks. Callers
// must publish any shared state through atomics or a lock before Release,
// exactly as the sync package's internals do.
type Sema uint32

func (s *Sema) Acquire() {
	runtime_semacquire((*uint32)(s))
}

func (s *Sema) Release() {
	runtime_semrelease((*uint32)(s), false, 0)
}

//go:linkname runtime_semacquire sync.runtime_Semacquire
func runtime_semacquire(s *uint32)

//go:linkname runtime_semrelease sync.runtime_Semrelease
func runtime_semrelease(s *uint32, handoff bool, skipframes int)
