//go:build spinx_disable_backoff

package spinx

// Backoff is compiled out under the spinx_disable_backoff tag. The type and
// its methods stay so call sites build unchanged; the methods are empty and
// disappear at inline time, and Do degenerates to a bare retry loop.
type Backoff struct{}

func (*Backoff) BeforeAttempt(addr uintptr) {}

func (*Backoff) AfterAttempt(addr uintptr) {}

func (*Backoff) Do(addr uintptr, attempt func() bool) {
	for !attempt() {
	}
}
