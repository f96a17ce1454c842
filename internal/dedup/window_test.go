package dedup

import (
	"fmt"
	"sync"
	"testing"
)

func TestSeenIdempotence(t *testing.T) {
	w := NewWindow(10)
	if w.Seen("m1") {
		t.Fatal("first sight should not be seen")
	}
	if !w.Seen("m1") {
		t.Fatal("second sight should be seen")
	}
	if !w.Seen("m1") {
		t.Fatal("third sight should be seen")
	}
}

func TestEvictionOldestFirst(t *testing.T) {
	w := NewWindow(3)
	for _, id := range []string{"a", "b", "c"} {
		w.Seen(id)
	}
	// "d" evicts "a", the oldest recorded id.
	w.Seen("d")
	if w.Seen("a") {
		t.Error("evicted id should look novel again")
	}
	// Recording "a" just evicted "b".
	if w.Seen("b") {
		t.Error("b should have been evicted")
	}
	if !w.Seen("c") {
		t.Error("c should still be recorded")
	}
	if !w.Seen("d") {
		t.Error("d should still be recorded")
	}
	if w.Len() != 3 {
		t.Errorf("len = %d, want 3", w.Len())
	}
}

func TestEmptyIDNeverDeduplicated(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 5; i++ {
		if w.Seen("") {
			t.Fatal("empty id must always be treated as novel")
		}
	}
	if w.Len() != 0 {
		t.Errorf("empty ids must not occupy capacity, len = %d", w.Len())
	}
}

func TestConcurrentSeen(t *testing.T) {
	w := NewWindow(100)
	var wg sync.WaitGroup
	var mu sync.Mutex
	firstSights := make(map[string]int)

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("m%d", i)
				if !w.Seen(id) {
					mu.Lock()
					firstSights[id]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	for id, n := range firstSights {
		if n != 1 {
			t.Errorf("id %s reported novel %d times, want exactly 1", id, n)
		}
	}
}
