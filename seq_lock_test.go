package spinx

import (
	"sync"
	"testing"
)

func TestSeqLock_Basic(t *testing.T) {
	var l SeqLock[int]
	if got := l.Read(); got != 0 {
		t.Fatalf("zero-value Read = %d, want 0", got)
	}
	l.Write(42)
	if got := l.Read(); got != 42 {
		t.Fatalf("Read = %d, want 42", got)
	}
	if got := l.Update(func(v int) int { return v + 1 }); got != 43 {
		t.Fatalf("Update returned %d, want 43", got)
	}
	if got := l.Read(); got != 43 {
		t.Fatalf("Read after Update = %d, want 43", got)
	}
}

type seqPair struct {
	a, b uint64
}

// TestSeqLock_TearFree hammers a two-word value from writers while readers
// assert they only ever see matched halves.
func TestSeqLock_TearFree(t *testing.T) {
	var l SeqLock[seqPair]
	stop := make(chan struct{})

	var readers sync.WaitGroup
	readers.Add(4)
	for range 4 {
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				p := l.Read()
				if p.a != p.b {
					t.Errorf("torn snapshot: a = %d, b = %d", p.a, p.b)
					return
				}
			}
		}()
	}

	var writers sync.WaitGroup
	writers.Add(2)
	for range 2 {
		go func() {
			defer writers.Done()
			for range 2000 {
				l.Update(func(p seqPair) seqPair {
					return seqPair{p.a + 1, p.b + 1}
				})
			}
		}()
	}
	writers.Wait()
	close(stop)
	readers.Wait()

	if p := l.Read(); p.a != 4000 || p.b != 4000 {
		t.Fatalf("final value = %+v, want {4000 4000}", p)
	}
}

func TestSeqLock_WritersSerialize(t *testing.T) {
	var l SeqLock[uint64]
	const writers = 8
	const perW = 250
	var wg sync.WaitGroup
	wg.Add(writers)
	for range writers {
		go func() {
			defer wg.Done()
			for range perW {
				l.Update(func(v uint64) uint64 { return v + 1 })
			}
		}()
	}
	wg.Wait()
	if got := l.Read(); got != writers*perW {
		t.Fatalf("final value = %d, want %d", got, writers*perW)
	}
}
