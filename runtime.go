package pyrt

import (
	"context"
	"time"

	"github.com/dop251/goja"
	"github.com/pyrt-dev/pyrt/internal/evalcache"
	"github.com/pyrt-dev/pyrt/internal/iomux"
	"github.com/pyrt-dev/pyrt/internal/logging"
	"github.com/pyrt-dev/pyrt/internal/sched"
)

// Config configures a Runtime. The zero value is not valid; use
// DefaultConfig and override fields as needed.
type Config struct {
	WorkerCount int
	Allocator   Allocator
	Logger      *logging.Logger
	Metrics     *Metrics

	// UseKernelEventQueue selects the io_uring-family multiplexer backend
	// instead of the default readiness-notification backend (epoll/
	// kqueue).
	UseKernelEventQueue bool
	RingDepth           uint32

	// InterpreterSetup configures each fresh goja.Runtime the evaluation
	// cache spins up per execution (installing host globals, etc). Left
	// nil to run with a bare ECMAScript global environment.
	InterpreterSetup func(*goja.Runtime)
}

// DefaultConfig returns a Config with one worker per CPU, a pooled
// allocator, the default logger, and the readiness-notification
// multiplexer backend.
func DefaultConfig() *Config {
	return &Config{
		WorkerCount: 0,
		Allocator:   DefaultAllocator(),
		Logger:      logging.Default(),
		Metrics:     NewMetrics(),
		RingDepth:   128,
	}
}

// Runtime is the facade wiring the scheduler, multiplexer, evaluation
// cache, allocator, and metrics into the single handle a host program
// constructs once per process (or per isolated interpreter instance).
type Runtime struct {
	cfg   *Config
	sched *sched.Scheduler
	mux   *Multiplexer
	cache *evalcache.Cache

	metrics *Metrics
}

// Multiplexer is the root-package handle wrapping internal/iomux, kept
// thin so callers never need to import the internal package directly.
type Multiplexer struct {
	inner *iomux.Multiplexer
}

// New constructs and starts a Runtime. Callers must call Close when done.
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Allocator == nil {
		cfg.Allocator = DefaultAllocator()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}

	var backend iomux.Backend
	if cfg.UseKernelEventQueue {
		backend = iomux.NewKernelEventQueueBackend(cfg.RingDepth)
	} else {
		backend = iomux.NewReadinessBackend()
	}
	innerMux := iomux.New(backend, nil, cfg.Metrics)
	if err := innerMux.Init(); err != nil {
		return nil, err
	}

	s := sched.New(cfg.WorkerCount, nil, cfg.Metrics, innerMux)
	s.Start()

	interp := evalcache.NewGojaInterpreter(cfg.InterpreterSetup)
	cache := evalcache.New(interp, cfg.Metrics)

	return &Runtime{
		cfg:     cfg,
		sched:   s,
		mux:     &Multiplexer{inner: innerMux},
		cache:   cache,
		metrics: cfg.Metrics,
	}, nil
}

// Spawn schedules entry to run on the worker pool, returning a handle to
// wait on its result.
func (r *Runtime) Spawn(entry func(ctx context.Context) (Object, error)) *Task {
	t := r.sched.Spawn(func(ctx context.Context) (any, error) {
		obj, err := entry(ctx)
		return obj, err
	})
	return &Task{inner: t}
}

// Task is the root-package handle to a scheduled unit of work.
type Task struct {
	inner *sched.Task
}

// Wait blocks until the task completes or ctx is cancelled.
func (t *Task) Wait(ctx context.Context) (Object, error) {
	result, err := t.inner.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.(Object), nil
}

// WaitAll blocks until every task has completed.
func (r *Runtime) WaitAll(ctx context.Context, tasks []*Task) error {
	inner := make([]*sched.Task, len(tasks))
	for i, t := range tasks {
		inner[i] = t.inner
	}
	return r.sched.WaitAll(ctx, inner)
}

// EvalCached compiles (on first use) and executes source, converting the
// interpreter's result into a new reference on a pyrt Object: the
// caller owns the returned reference and must Decref it.
func (r *Runtime) EvalCached(source string) (Object, error) {
	v, err := r.cache.EvalCached(source)
	if err != nil {
		return nil, WrapError("evalcache.EvalCached", KindSyntaxError, err)
	}
	obj, err := ObjectFromGo(v)
	if err != nil {
		return nil, WrapError("evalcache.EvalCached", KindTypeError, err)
	}
	return obj, nil
}

// RegisterIO arms a single-shot readiness wait on fd. task is the task to
// park and resume once fd becomes ready, typically obtained via
// TaskFromContext from inside that task's own entry function; pass nil to
// register interest with no task to resume (a host program polling a raw
// fd through GetReadyIO).
func (r *Runtime) RegisterIO(fd int, events iomux.EventMask, task *Task) (int64, error) {
	tag, err := r.mux.inner.RegisterIO(fd, events, taskHandle(task))
	if err != nil {
		return 0, WrapError("iomux.RegisterIO", KindOSError, err)
	}
	return tag, nil
}

// RegisterTimer arms a one-shot timer. task follows the same convention as
// RegisterIO.
func (r *Runtime) RegisterTimer(d time.Duration, task *Task) int64 {
	return r.mux.inner.RegisterTimer(d, taskHandle(task))
}

// taskHandle unwraps a root-package Task to the *sched.Task an
// iomux.Multiplexer registration parks against, passing through nil so a
// nil *Task (no task to resume) round-trips instead of type-asserting to
// a non-nil interface holding a nil pointer.
func taskHandle(t *Task) any {
	if t == nil {
		return nil
	}
	return t.inner
}

// TaskFromContext returns the Task currently running on ctx, for use from
// inside a Spawn entry function that wants to park itself via RegisterIO
// or RegisterTimer and must return ErrParked afterward.
func TaskFromContext(ctx context.Context) (*Task, bool) {
	it, ok := sched.TaskFromContext(ctx)
	if !ok {
		return nil, false
	}
	return &Task{inner: it}, true
}

// ErrParked is returned by a Spawn entry function to suspend the task
// after it has registered itself with the multiplexer via RegisterIO or
// RegisterTimer. The task resumes, with Entry called again, once that
// registration's completion reaches the scheduler's ready list.
var ErrParked = sched.ErrParked

// UnregisterIO cancels a pending I/O or timer registration.
func (r *Runtime) UnregisterIO(tag int64) error {
	if err := r.mux.inner.Unregister(tag); err != nil {
		return WrapError("iomux.Unregister", KindRuntimeError, err)
	}
	return nil
}

// PollIO drains one round of readiness from the multiplexer backend. A
// host program typically calls this from a dedicated poller goroutine or
// cooperatively from an idle worker.
func (r *Runtime) PollIO(timeout time.Duration) error {
	if err := r.mux.inner.Poll(timeout); err != nil {
		return WrapError("iomux.Poll", KindOSError, err)
	}
	return nil
}

// GetReadyIO returns and clears the multiplexer's current ready list.
func (r *Runtime) GetReadyIO() []iomux.Completion {
	return r.mux.inner.GetReady()
}

// Metrics returns the runtime's observability counters.
func (r *Runtime) Metrics() *Metrics { return r.metrics }

// Shutdown stops accepting new scheduler work and signals workers to
// drain and exit.
func (r *Runtime) Shutdown() { r.sched.Shutdown() }

// Close waits for the scheduler to fully drain after Shutdown and
// releases the multiplexer's OS resources. Close must be called exactly
// once, after Shutdown.
func (r *Runtime) Close() error {
	r.sched.Deinit()
	return r.mux.inner.Deinit()
}
