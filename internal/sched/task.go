// Package sched implements an M:N scheduler: a fixed pool of
// OS-thread-pinned worker goroutines, each owning a work-stealing deque,
// draining the I/O multiplexer's ready list between pops, and stealing
// round-robin from peers when its own deque runs dry.
//
// The worker main loop pins its OS thread (no CPU affinity is applied),
// then loops: try local work, drain readiness, steal, idle.
package sched

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrParked is returned by a Task's Entry to tell the worker loop the
// task has registered itself with the multiplexer (see TaskFromContext)
// and should be suspended rather than finished. The worker leaves it off
// every deque until the multiplexer's ready list reports its tag, at
// which point it is pushed back onto a deque and Entry runs again.
var ErrParked = errors.New("sched: task parked")

// TaskState is a task's lifecycle stage.
type TaskState int32

const (
	TaskQueued TaskState = iota
	TaskRunning
	TaskParked
	TaskDone
)

// Task is one schedulable unit: a callable plus its result slot. Entry
// runs to completion or parks by returning ErrParked (via the return
// value convention below) after registering itself with the multiplexer.
type Task struct {
	ID    int64
	Entry func(ctx context.Context) (any, error)

	state atomic.Int32

	mu          sync.Mutex
	done        chan struct{}
	result      any
	err         error
	goroutineID int64
	parkedAt    time.Time

	lastWorker int32 // the worker whose deque Spawn placed this task on
}

// taskContextKey is the context.Context key a worker installs before
// calling Entry, so a parking task can fetch its own handle to pass to
// Multiplexer registration without the scheduler needing a separate
// self-registration API.
type taskContextKey struct{}

// TaskFromContext returns the Task currently running on ctx, if any.
// Entry implementations that want to park on an fd or timer call this to
// get the handle a Multiplexer registration needs.
func TaskFromContext(ctx context.Context) (*Task, bool) {
	t, ok := ctx.Value(taskContextKey{}).(*Task)
	return t, ok
}

// NewTask constructs a Task ready to be Spawned.
func NewTask(id int64, entry func(ctx context.Context) (any, error)) *Task {
	return &Task{ID: id, Entry: entry, done: make(chan struct{}), lastWorker: -1}
}

// State returns the task's current lifecycle stage.
func (t *Task) State() TaskState { return TaskState(t.state.Load()) }

func (t *Task) setState(s TaskState) { t.state.Store(int32(s)) }

// finish records the task's outcome and unblocks any Wait callers.
func (t *Task) finish(result any, err error) {
	t.mu.Lock()
	t.result, t.err = result, err
	t.mu.Unlock()
	t.setState(TaskDone)
	close(t.done)
}

// Wait blocks until the task completes, or ctx is cancelled first.
func (t *Task) Wait(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done reports whether the task has completed.
func (t *Task) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
