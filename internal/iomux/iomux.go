// Package iomux implements an OS readiness-driven I/O multiplexer: two
// backend families — a kernel-event-queue backend (io_uring on Linux,
// submission/completion driven) and a readiness-notification backend
// (epoll on Linux, kqueue on Darwin) — behind one Backend interface,
// plus the pending-table/ready-list bookkeeping shared by both.
//
// The pending table and ready list use separate locks, each held only
// across its own hash lookup/insert/remove or slice swap; the ready
// list itself is double-buffered and atomically swapped, a proactor-
// style pending-map-plus-results-buffer split.
package iomux

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pyrt-dev/pyrt/internal/interfaces"
)

// EventMask is the bitmask of readiness conditions a registration waits
// on, shared by every backend.
type EventMask uint32

const (
	EventRead EventMask = 1 << iota
	EventWrite
	EventError
	EventHangup
	EventTimeout
)

// Completion is one readiness notification delivered to a waiter: either
// an I/O readiness event or a timer firing. Task carries whatever value
// was passed to RegisterIO/RegisterTimer — typically a *sched.Task the
// scheduler pushes back onto a deque — so the caller draining GetReady
// does not need a separate tag-to-task lookup. It is nil for
// registrations that did not pass one.
type Completion struct {
	Tag    int64
	Events EventMask
	Err    error
	Task   any
}

// pending is one outstanding registration, single-shot: it fires at
// most once and must be re-registered by the caller to wait again.
type pending struct {
	tag      int64
	fd       int
	events   EventMask
	deadline time.Time
	isTimer  bool
	task     any
}

// Backend is the OS-specific readiness source a Multiplexer drives. Both
// families (kernel-event-queue, readiness-notification) implement this
// same small surface; the Multiplexer itself is backend-agnostic.
type Backend interface {
	// Init prepares the backend's OS resources.
	Init() error
	// Register arms a single-shot wait for fd against events.
	Register(fd int, events EventMask) error
	// Unregister cancels a previously armed wait, if still pending.
	Unregister(fd int) error
	// Wait blocks up to timeout for at least one readiness event,
	// appending fired completions to out and returning the extended
	// slice. A zero-length result with a nil error means the timeout
	// elapsed with nothing ready.
	Wait(timeout time.Duration, out []Completion) ([]Completion, error)
	// Close releases the backend's OS resources.
	Close() error
}

// Multiplexer is the backend-agnostic registration and readiness
// bookkeeping layer the scheduler parks tasks against.
type Multiplexer struct {
	backend Backend
	logger  interfaces.Logger
	obs     interfaces.Observer

	pendingMu sync.Mutex
	pendingByTag map[int64]*pending
	nextTag      atomic.Int64

	// readyMu guards the ready list: publish appends to it under the
	// lock, and GetReady swaps the whole slice out under the lock, so a
	// reader owns the slice it was handed, mirroring gaio's
	// double-buffered results design.
	readyMu sync.Mutex
	ready   []Completion

	timers timerHeap

	closed atomic.Bool

	registerCount atomic.Uint64
	fireCount     atomic.Uint64
}

// New constructs a Multiplexer over the given backend. Call Start to begin
// the poll loop.
func New(backend Backend, logger interfaces.Logger, obs interfaces.Observer) *Multiplexer {
	return &Multiplexer{
		backend:      backend,
		logger:       logger,
		obs:          obs,
		pendingByTag: make(map[int64]*pending),
	}
}

// Init prepares the backend.
func (m *Multiplexer) Init() error {
	return m.backend.Init()
}

// RegisterIO arms a single-shot wait on fd for events, returning a tag
// used to unregister or correlate the eventual Completion. The returned
// tag is the fd itself: every readiness backend correlates completions by
// fd, so using anything else would require an extra fd->tag table in
// every backend implementation rather than once here. task parks
// alongside the registration and is handed back on the Completion's Task
// field when it fires; pass nil for registrations with no task to park
// (a host program waiting on a raw fd through GetReadyIO).
func (m *Multiplexer) RegisterIO(fd int, events EventMask, task any) (int64, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	tag := int64(fd)
	m.pendingMu.Lock()
	m.pendingByTag[tag] = &pending{tag: tag, fd: fd, events: events, task: task}
	m.pendingMu.Unlock()

	if err := m.backend.Register(fd, events); err != nil {
		m.pendingMu.Lock()
		delete(m.pendingByTag, tag)
		m.pendingMu.Unlock()
		return 0, err
	}
	m.registerCount.Add(1)
	return tag, nil
}

// RegisterTimer arms a one-shot timer that fires after d elapses,
// independent of any file descriptor. Timer tags live in the negative
// space so they can never collide with a (non-negative) fd-derived I/O
// tag. task is handed back on the fired Completion's Task field, the same
// convention as RegisterIO.
func (m *Multiplexer) RegisterTimer(d time.Duration, task any) int64 {
	tag := -m.nextTag.Add(1)
	deadline := nowFunc().Add(d)
	p := &pending{tag: tag, isTimer: true, deadline: deadline, task: task}
	m.pendingMu.Lock()
	m.pendingByTag[tag] = p
	m.timers.Push(&timerEntry{tag: tag, deadline: deadline})
	m.pendingMu.Unlock()
	m.registerCount.Add(1)
	return tag
}

// Unregister cancels a pending registration. It is a no-op if the tag
// already fired or was never registered.
func (m *Multiplexer) Unregister(tag int64) error {
	m.pendingMu.Lock()
	p, ok := m.pendingByTag[tag]
	if ok {
		delete(m.pendingByTag, tag)
	}
	m.pendingMu.Unlock()
	if !ok {
		return nil
	}
	if !p.isTimer {
		return m.backend.Unregister(p.fd)
	}
	return nil
}

// Poll drains the backend once, waiting up to timeout, moving any fired
// registrations into the ready list, and firing any timers whose deadline
// has passed. It is meant to be called in a loop by one goroutine (the
// multiplexer's own poll loop, or cooperatively by an idle scheduler
// worker); GetReady is safe to call concurrently from any worker.
func (m *Multiplexer) Poll(timeout time.Duration) error {
	if d, ok := m.nextTimerDeadline(); ok {
		if until := time.Until(d); until < timeout {
			timeout = until
		}
	}
	if timeout < 0 {
		timeout = 0
	}

	fired, err := m.backend.Wait(timeout, nil)
	if err != nil {
		return err
	}

	m.fireTimers()

	if len(fired) == 0 {
		return nil
	}

	completions := make([]Completion, 0, len(fired))
	m.pendingMu.Lock()
	for _, c := range fired {
		if p, ok := m.pendingByTag[c.Tag]; ok {
			delete(m.pendingByTag, c.Tag)
			c.Task = p.task
			completions = append(completions, c)
		}
	}
	m.pendingMu.Unlock()

	m.publish(completions)
	return nil
}

func (m *Multiplexer) fireTimers() {
	now := nowFunc()
	var fired []Completion
	m.pendingMu.Lock()
	for {
		e, ok := m.timers.Peek()
		if !ok || e.deadline.After(now) {
			break
		}
		m.timers.Pop()
		p, stillPending := m.pendingByTag[e.tag]
		if !stillPending {
			continue
		}
		delete(m.pendingByTag, e.tag)
		fired = append(fired, Completion{Tag: e.tag, Events: EventTimeout, Task: p.task})
	}
	m.pendingMu.Unlock()
	if len(fired) > 0 {
		m.publish(fired)
	}
}

// publish appends newly fired completions to the ready list under the
// ready lock, a single atomic-looking operation from the perspective of
// concurrent GetReady callers.
func (m *Multiplexer) publish(completions []Completion) {
	m.fireCount.Add(uint64(len(completions)))
	m.readyMu.Lock()
	m.ready = append(m.ready, completions...)
	m.readyMu.Unlock()
}

// GetReady atomically swaps out and returns everything currently in the
// ready list, leaving it empty. Each completion is delivered to exactly
// one caller: the swap under the lock is what guarantees no two
// concurrent GetReady calls can see the same completion twice.
func (m *Multiplexer) GetReady() []Completion {
	m.readyMu.Lock()
	out := m.ready
	m.ready = nil
	m.readyMu.Unlock()
	return out
}

func (m *Multiplexer) nextTimerDeadline() (time.Time, bool) {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	e, ok := m.timers.Peek()
	if !ok {
		return time.Time{}, false
	}
	return e.deadline, true
}

// Deinit releases the backend's resources. The multiplexer must not be
// used afterward.
func (m *Multiplexer) Deinit() error {
	m.closed.Store(true)
	return m.backend.Close()
}

// nowFunc is a seam for tests that need deterministic timer firing.
var nowFunc = time.Now
