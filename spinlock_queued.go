//go:build spinx_queued_lock

package spinx

// SpinLock is the build-selected lock strategy, switched to QueuedLock by the
// spinx_queued_lock build tag. See spinlock_ticket.go for the default.
type SpinLock = QueuedLock
