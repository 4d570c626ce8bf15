package iomux

import (
	"testing"
	"time"
)

// stubBackend is a no-op Backend used to test the Multiplexer's
// timer/ready-list bookkeeping independent of any OS readiness mechanism.
type stubBackend struct{}

func (stubBackend) Init() error                                         { return nil }
func (stubBackend) Register(fd int, events EventMask) error             { return nil }
func (stubBackend) Unregister(fd int) error                             { return nil }
func (stubBackend) Wait(d time.Duration, out []Completion) ([]Completion, error) {
	time.Sleep(d)
	return out, nil
}
func (stubBackend) Close() error { return nil }

// TestTimerFiresOnce registers a 10ms timer, polls, and asserts it
// appears exactly once in GetReady and never again, exercising the
// wake-exactly-once property.
func TestTimerFiresOnce(t *testing.T) {
	m := New(stubBackend{}, nil, nil)
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer m.Deinit()

	tag := m.RegisterTimer(10*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	var seen []Completion
	for time.Now().Before(deadline) {
		if err := m.Poll(20 * time.Millisecond); err != nil {
			t.Fatalf("Poll: %v", err)
		}
		seen = append(seen, m.GetReady()...)
		if len(seen) > 0 {
			break
		}
	}

	if len(seen) != 1 {
		t.Fatalf("got %d completions, want exactly 1", len(seen))
	}
	if seen[0].Tag != tag {
		t.Fatalf("completion tag = %d, want %d", seen[0].Tag, tag)
	}
	if seen[0].Events&EventTimeout == 0 {
		t.Fatalf("completion events = %v, want EventTimeout set", seen[0].Events)
	}

	// A second poll must not re-deliver the same timer.
	_ = m.Poll(5 * time.Millisecond)
	if more := m.GetReady(); len(more) != 0 {
		t.Fatalf("timer fired a second time: %v", more)
	}
}

// TestUnregisterPreventsLaterFire confirms a cancelled timer never
// reaches the ready list.
func TestUnregisterPreventsLaterFire(t *testing.T) {
	m := New(stubBackend{}, nil, nil)
	_ = m.Init()
	defer m.Deinit()

	tag := m.RegisterTimer(5*time.Millisecond, nil)
	if err := m.Unregister(tag); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	_ = m.Poll(5 * time.Millisecond)
	if ready := m.GetReady(); len(ready) != 0 {
		t.Fatalf("cancelled timer fired: %v", ready)
	}
}

// TestGetReadyDeliversEachCompletionOnce exercises the ready-list swap
// directly: concurrent GetReady callers must partition, never duplicate,
// published completions.
func TestGetReadyDeliversEachCompletionOnce(t *testing.T) {
	m := New(stubBackend{}, nil, nil)
	_ = m.Init()
	defer m.Deinit()

	m.publish([]Completion{{Tag: 1}, {Tag: 2}, {Tag: 3}})

	first := m.GetReady()
	second := m.GetReady()
	if len(first) != 3 {
		t.Fatalf("first GetReady returned %d, want 3", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("second GetReady returned %d, want 0 (already drained)", len(second))
	}
}
