package queue

import (
	"sort"
	"sync"
	"testing"
)

func TestPushPopLIFO(t *testing.T) {
	d := New[int](4)
	d.PushBottom(1)
	d.PushBottom(2)
	d.PushBottom(3)
	v, ok := d.PopBottom()
	if !ok || v != 3 {
		t.Fatalf("PopBottom() = %v, %v, want 3, true", v, ok)
	}
}

func TestStealFIFO(t *testing.T) {
	d := New[int](4)
	d.PushBottom(1)
	d.PushBottom(2)
	d.PushBottom(3)
	v, ok := d.StealTop()
	if !ok || v != 1 {
		t.Fatalf("StealTop() = %v, %v, want 1, true", v, ok)
	}
}

func TestEmptyDequeReturnsFalse(t *testing.T) {
	d := New[int](4)
	if _, ok := d.PopBottom(); ok {
		t.Fatal("PopBottom on empty deque returned ok=true")
	}
	if _, ok := d.StealTop(); ok {
		t.Fatal("StealTop on empty deque returned ok=true")
	}
}

// TestConcurrentStealLinearizability pushes 0..999 from the owner, then
// has many thieves race to steal, and verifies the union of everything
// popped and stolen is exactly {0..999} with no duplicates and no drops.
func TestConcurrentStealLinearizability(t *testing.T) {
	const n = 1000
	d := New[int](n)
	for i := 0; i < n; i++ {
		d.PushBottom(i)
	}

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := d.StealTop()
				if !ok {
					return
				}
				mu.Lock()
				got = append(got, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for {
		v, ok := d.PopBottom()
		if !ok {
			break
		}
		got = append(got, v)
	}

	if len(got) != n {
		t.Fatalf("got %d items, want %d", len(got), n)
	}
	sort.Ints(got)
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d (duplicate or drop)", i, v, i)
		}
	}
}
