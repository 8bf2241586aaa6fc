package spinx

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueuedLock(t *testing.T) {
	var l QueuedLock
	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	var counter int64
	var depth atomic.Int32
	for range n {
		go func() {
			defer wg.Done()
			l.Lock()
			if d := depth.Add(1); d != 1 {
				t.Errorf("critical section depth = %d, want 1", d)
			}
			counter++
			depth.Add(-1)
			l.Unlock()
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
	if l.IsLocked() {
		t.Fatal("IsLocked after all Unlocks = true, want false")
	}
}

func TestQueuedLock_TryLock(t *testing.T) {
	var l QueuedLock
	if !l.TryLock() {
		t.Fatal("TryLock on a free lock = false, want true")
	}
	if !l.IsLocked() {
		t.Fatal("IsLocked after TryLock = false, want true")
	}
	if l.TryLock() {
		t.Fatal("TryLock on a held lock = true, want false")
	}
	l.Unlock()
	if l.IsLocked() {
		t.Fatal("IsLocked after Unlock = true, want false")
	}
	if !l.TryLock() {
		t.Fatal("TryLock after Unlock = false, want true")
	}
	l.Unlock()
}

// TestQueuedLock_FIFO pins down arrival order by watching the queue tail:
// each waiter is spawned only after the previous one has swapped itself in,
// so the service order must match the spawn order.
func TestQueuedLock_FIFO(t *testing.T) {
	var l QueuedLock
	const n = 4

	l.Lock()
	prev := l.tail.Load()

	order := make([]int, 0, n) // protected by l
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			l.Lock()
			order = append(order, i)
			l.Unlock()
		}()
		for l.tail.Load() == prev {
			runtime.Gosched()
		}
		prev = l.tail.Load()
	}
	l.Unlock()
	wg.Wait()

	for i, got := range order {
		if got != i {
			t.Fatalf("service order = %v, want arrivals served in queue order", order)
		}
	}
}

func TestQueuedLock_IsContended(t *testing.T) {
	var l QueuedLock
	if l.IsContended() {
		t.Fatal("IsContended on a free lock = true, want false")
	}
	l.Lock()
	if l.IsContended() {
		t.Fatal("IsContended with no waiters = true, want false")
	}
	holder := l.tail.Load()

	released := make(chan struct{})
	go func() {
		l.Lock()
		l.Unlock()
		close(released)
	}()
	// Wait until the goroutine has queued behind the holder.
	for l.tail.Load() == holder {
		runtime.Gosched()
	}
	if !l.IsContended() {
		t.Fatal("IsContended with a waiter = false, want true")
	}
	if l.TryLock() {
		t.Fatal("TryLock with a queued waiter = true, want false")
	}

	l.Unlock()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("waiter did not acquire the lock after Unlock")
	}
	if l.IsContended() {
		t.Fatal("IsContended on a free lock = true, want false")
	}
}
