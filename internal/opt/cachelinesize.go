//go:build !spinx_cachelinesize_64 && !spinx_cachelinesize_128

package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize_ sizes the padding that keeps hot counters on separate
// cache lines. By default it is taken from `golang.org/x/sys`, which knows
// the coherency block size per GOARCH; the spinx_cachelinesize_* tags
// override it for odd targets.
const CacheLineSize_ = unsafe.Sizeof(cpu.CacheLinePad{})
