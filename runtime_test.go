package pyrt

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestTaskParksOnTimerAndResumes spawns a task that registers a 10ms timer
// against the runtime's multiplexer and parks, and asserts the task
// transitions ready -> running -> completed within 30ms: the idle-worker
// poll loop must notice the fired timer and push the task back onto a
// deque without any dedicated poller goroutine.
func TestTaskParksOnTimerAndResumes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkerCount = 2
	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		rt.Shutdown()
		_ = rt.Close()
	}()

	var waited bool
	start := time.Now()
	task := rt.Spawn(func(ctx context.Context) (Object, error) {
		if !waited {
			waited = true
			self, ok := TaskFromContext(ctx)
			if !ok {
				t.Error("TaskFromContext: no task in context")
			}
			rt.RegisterTimer(10*time.Millisecond, self)
			return nil, ErrParked
		}
		Incref(None())
		return None(), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	result, err := task.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Millisecond {
		t.Fatalf("task took %v to resume and complete, want <= 30ms", elapsed)
	}
	if result != None() {
		t.Fatalf("result = %v, want None", result)
	}
	Decref(result, DefaultAllocator())
}

// TestRegisterIOWithNoTaskRoundTrips exercises the raw fd-registration path
// with no task attached, the convention a host program uses when polling
// readiness from outside any scheduled task.
func TestRegisterIOWithNoTaskRoundTrips(t *testing.T) {
	rt, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		rt.Shutdown()
		_ = rt.Close()
	}()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	tag, err := rt.RegisterIO(int(r.Fd()), 1, nil)
	if err != nil {
		t.Fatalf("RegisterIO: %v", err)
	}
	if err := rt.UnregisterIO(tag); err != nil {
		t.Fatalf("UnregisterIO: %v", err)
	}
}
