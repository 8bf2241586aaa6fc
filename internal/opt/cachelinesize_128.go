//go:build spinx_cachelinesize_128

package opt

// CacheLineSize_ is forced to 128 bytes via the spinx_cachelinesize_128
// build tag, for targets that pair or prefetch adjacent 64-byte lines.
// Use: go build -tags=spinx_cachelinesize_128
const CacheLineSize_ = 128
