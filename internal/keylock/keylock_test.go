package keylock

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	t.Parallel()

	m := New()
	counter := 0
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("agent-1")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()
	if counter != 100 {
		t.Fatalf("counter = %d, want 100", counter)
	}
	if m.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after all unlocks", m.Len())
	}
}

func TestLockIndependentKeys(t *testing.T) {
	t.Parallel()

	m := New()
	unlockA := m.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := m.Lock("b")
		unlock()
		close(done)
	}()
	<-done
	unlockA()
}
