//go:build !spinx_queued_lock

package spinx

// SpinLock is the build-selected lock strategy, TicketLock by default. The
// spinx_queued_lock tag switches every SpinLock in the program to QueuedLock.
// Being a type alias, SpinLock dispatches at compile time and costs nothing
// over naming the strategy directly.
//
// Use: go build -tags=spinx_queued_lock to switch.
type SpinLock = TicketLock
