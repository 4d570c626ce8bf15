package sched

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// TestFourWorkersThousandTasks spawns 1000 cheap tasks across 4 workers
// and confirms every one completes and WaitAll observes no error.
func TestFourWorkersThousandTasks(t *testing.T) {
	s := New(4, nil, nil, nil)
	s.Start()
	defer func() {
		s.Shutdown()
		s.Deinit()
	}()

	var completed atomic.Int64
	tasks := make([]*Task, 1000)
	for i := range tasks {
		tasks[i] = s.Spawn(func(ctx context.Context) (any, error) {
			completed.Add(1)
			return i, nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.WaitAll(ctx, tasks); err != nil {
		t.Fatalf("WaitAll: %v", err)
	}
	if got := completed.Load(); got != 1000 {
		t.Fatalf("completed = %d, want 1000", got)
	}
}

func TestSpawnReturnsResultAndError(t *testing.T) {
	s := New(2, nil, nil, nil)
	s.Start()
	defer func() {
		s.Shutdown()
		s.Deinit()
	}()

	task := s.Spawn(func(ctx context.Context) (any, error) {
		return 42, nil
	})
	ctx := context.Background()
	result, err := s.Wait(ctx, task)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %v, want 42", result)
	}

	failing := s.Spawn(func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if _, err := s.Wait(ctx, failing); err == nil || err.Error() != "boom" {
		t.Fatalf("Wait on failing task: err = %v, want boom", err)
	}
}

func TestStealingKeepsWorkersBusy(t *testing.T) {
	s := New(4, nil, nil, nil)
	s.Start()
	defer func() {
		s.Shutdown()
		s.Deinit()
	}()

	// Spawn placement is round-robin, so a single burst from one caller
	// already exercises stealing once any worker's local deque drains
	// before another's. What matters here is that all tasks still finish.
	tasks := make([]*Task, 200)
	for i := range tasks {
		tasks[i] = s.Spawn(func(ctx context.Context) (any, error) {
			time.Sleep(time.Millisecond)
			return nil, nil
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.WaitAll(ctx, tasks); err != nil {
		t.Fatalf("WaitAll: %v", err)
	}
}
