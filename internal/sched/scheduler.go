package sched

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pyrt-dev/pyrt/internal/constants"
	"github.com/pyrt-dev/pyrt/internal/except"
	"github.com/pyrt-dev/pyrt/internal/interfaces"
	"github.com/pyrt-dev/pyrt/internal/iomux"
	"github.com/pyrt-dev/pyrt/internal/queue"
)

// Multiplexer is the I/O multiplexer surface a Scheduler polls for
// newly-ready parked tasks, between each local deque pop and steal
// attempt, and polls for WorkerIdleYield when a worker finds no work. *iomux.
// Multiplexer satisfies this by its existing Poll/GetReady methods.
type Multiplexer interface {
	Poll(timeout time.Duration) error
	GetReady() []iomux.Completion
}

// Scheduler is the M:N worker pool: workerCount goroutines, each pinned
// to an OS thread via runtime.LockOSThread, each owning a work-stealing
// deque.
type Scheduler struct {
	workers []*worker
	logger  interfaces.Logger
	obs     interfaces.Observer
	mux     Multiplexer

	nextTaskID atomic.Int64
	nextRR     atomic.Uint32 // round-robin starting point for spawn placement

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	shutdownOnce sync.Once
}

type worker struct {
	index int
	deque *queue.Deque[*Task]
	sched *Scheduler
}

// New constructs a Scheduler with workerCount workers. workerCount <= 0
// resolves to runtime.NumCPU(), per constants.DefaultWorkerCount's
// documented meaning. mux may be nil, in which case workers never park
// against a multiplexer and simply sleep when idle.
func New(workerCount int, logger interfaces.Logger, obs interfaces.Observer, mux Multiplexer) *Scheduler {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{logger: logger, obs: obs, mux: mux, ctx: ctx, cancel: cancel}
	s.workers = make([]*worker, workerCount)
	for i := range s.workers {
		s.workers[i] = &worker{
			index: i,
			deque: queue.New[*Task](constants.DefaultDequeCapacity),
			sched: s,
		}
	}
	return s
}

// Start launches the worker goroutines. Must be called once before Spawn.
func (s *Scheduler) Start() {
	for _, w := range s.workers {
		s.wg.Add(1)
		go w.run()
	}
}

// Spawn creates and enqueues a new task, placed round-robin across
// workers so a burst of spawns from one caller fans out rather than
// piling onto worker 0.
func (s *Scheduler) Spawn(entry func(ctx context.Context) (any, error)) *Task {
	id := s.nextTaskID.Add(1)
	t := NewTask(id, entry)
	idx := int(s.nextRR.Add(1)) % len(s.workers)
	t.lastWorker = int32(idx)
	s.workers[idx].deque.PushBottom(t)
	if s.obs != nil {
		s.obs.ObserveSpawn()
	}
	return t
}

// Wait blocks until t completes or ctx is done.
func (s *Scheduler) Wait(ctx context.Context, t *Task) (any, error) {
	return t.Wait(ctx)
}

// WaitAll blocks until every task in tasks has completed or ctx is done,
// returning the first error encountered (if any) after all have settled.
func (s *Scheduler) WaitAll(ctx context.Context, tasks []*Task) error {
	var firstErr error
	for _, t := range tasks {
		_, err := t.Wait(ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Shutdown stops accepting new work conceptually (Spawn remains callable
// but newly spawned tasks will never run once workers exit) and signals
// every worker to drain its local deque and exit once empty.
func (s *Scheduler) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.cancel()
	})
}

// Deinit waits for all worker goroutines to exit after Shutdown. Callers
// that want a clean process exit should call Shutdown then Deinit.
func (s *Scheduler) Deinit() {
	s.wg.Wait()
}

// WorkerCount returns the number of workers in the pool.
func (s *Scheduler) WorkerCount() int { return len(s.workers) }

func (w *worker) run() {
	defer w.sched.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	idleStreak := 0
	for {
		select {
		case <-w.sched.ctx.Done():
			if w.drainRemaining() {
				continue
			}
			return
		default:
		}

		t, ok := w.deque.PopBottom()
		if !ok && w.drainReady() {
			t, ok = w.deque.PopBottom()
		}
		if !ok {
			t, ok = w.steal()
		}
		if !ok {
			idleStreak++
			w.idle()
			continue
		}
		idleStreak = 0
		w.runTask(t)
	}
}

// drainReady polls the multiplexer's ready list (if one is wired) and
// pushes every completion's parked task back onto this worker's deque,
// reporting whether it found any so the caller can retry a local pop
// before falling through to stealing. A completion whose Task does not
// resolve to a *Task (e.g. a host-registered fd unrelated to any task)
// is simply dropped: GetReadyIO remains the way to observe those.
func (w *worker) drainReady() bool {
	if w.sched.mux == nil {
		return false
	}
	completions := w.sched.mux.GetReady()
	found := false
	for _, c := range completions {
		t, ok := c.Task.(*Task)
		if !ok || t == nil {
			continue
		}
		found = true
		w.deque.PushBottom(t)
	}
	return found
}

// idle blocks the worker for one short interval when it found no local,
// ready, or stealable work: against a wired multiplexer this doubles as
// that multiplexer's poll loop, so an idle worker is also the thing that
// notices a timer or fd has fired; with none wired it is a plain sleep.
func (w *worker) idle() {
	if w.sched.mux != nil {
		_ = w.sched.mux.Poll(constants.WorkerIdleYield)
		return
	}
	time.Sleep(constants.WorkerIdleYield)
}

// drainRemaining runs any tasks still on this worker's deque after
// Shutdown, so in-flight work completes instead of being silently
// dropped. Returns true while there is still work to drain.
func (w *worker) drainRemaining() bool {
	t, ok := w.deque.PopBottom()
	if !ok {
		return false
	}
	w.runTask(t)
	return true
}

func (w *worker) runTask(t *Task) {
	resuming := t.State() == TaskParked
	if resuming {
		// The task may have parked while running on a different worker's
		// goroutine than this one; move whatever exception state it left
		// behind across before Entry runs again, since the exception
		// belongs to the task, not the OS thread that happened to run it.
		except.Move(t.goroutineID)
		if w.sched.obs != nil {
			w.sched.obs.ObserveParkLatency(uint64(time.Since(t.parkedAt).Nanoseconds()))
		}
	}
	t.setState(TaskRunning)
	t.goroutineID = except.CurrentGoroutineID()

	ctx := context.WithValue(w.sched.ctx, taskContextKey{}, t)
	start := time.Now()
	result, err := t.Entry(ctx)
	if errors.Is(err, ErrParked) {
		t.parkedAt = time.Now()
		t.setState(TaskParked)
		return
	}
	t.finish(result, err)
	if w.sched.obs != nil {
		w.sched.obs.ObserveComplete(uint64(time.Since(start).Nanoseconds()))
	}
}

// steal tries every other worker once, starting at (self+1) mod N and
// proceeding round-robin.
func (w *worker) steal() (*Task, bool) {
	n := len(w.sched.workers)
	if n <= 1 {
		return nil, false
	}
	for i := 1; i < n; i++ {
		victim := w.sched.workers[(w.index+i)%n]
		if t, ok := victim.deque.StealTop(); ok {
			if w.sched.obs != nil {
				w.sched.obs.ObserveSteal(true)
			}
			return t, true
		}
	}
	if w.sched.obs != nil {
		w.sched.obs.ObserveSteal(false)
	}
	return nil, false
}
