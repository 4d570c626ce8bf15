//go:build darwin

package iomux

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// KqueueBackend is the readiness-notification backend for Darwin: one
// kqueue instance, EV_ONESHOT registrations so each fire is single-shot
// without a separate disarm step.
type KqueueBackend struct {
	kq int

	mu       sync.Mutex
	eventBuf [256]unix.Kevent_t
}

// NewKqueueBackend constructs an (uninitialized) kqueue backend.
func NewKqueueBackend() *KqueueBackend { return &KqueueBackend{} }

func (b *KqueueBackend) Init() error {
	kq, err := unix.Kqueue()
	if err != nil {
		return err
	}
	unix.CloseOnExec(kq)
	b.kq = kq
	return nil
}

func (b *KqueueBackend) Register(fd int, events EventMask) error {
	var changes []unix.Kevent_t
	if events&EventRead != 0 {
		changes = append(changes, unix.Kevent_t{
			Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: unix.EV_ADD | unix.EV_ONESHOT,
		})
	}
	if events&EventWrite != 0 {
		changes = append(changes, unix.Kevent_t{
			Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: unix.EV_ADD | unix.EV_ONESHOT,
		})
	}
	if len(changes) == 0 {
		return nil
	}
	_, err := unix.Kevent(b.kq, changes, nil, nil)
	return err
}

func (b *KqueueBackend) Unregister(fd int) error {
	changes := []unix.Kevent_t{
		{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: unix.EV_DELETE},
		{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: unix.EV_DELETE},
	}
	// Best-effort: deleting a filter that was never added returns ENOENT,
	// which callers of Unregister do not need to observe.
	_, _ = unix.Kevent(b.kq, changes, nil, nil)
	return nil
}

func (b *KqueueBackend) Wait(timeout time.Duration, out []Completion) ([]Completion, error) {
	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	n, err := unix.Kevent(b.kq, nil, b.eventBuf[:], &ts)
	if err != nil {
		if err == unix.EINTR {
			return out, nil
		}
		return out, err
	}
	for i := 0; i < n; i++ {
		ev := b.eventBuf[i]
		var mask EventMask
		switch ev.Filter {
		case unix.EVFILT_READ:
			mask = EventRead
		case unix.EVFILT_WRITE:
			mask = EventWrite
		}
		if ev.Flags&unix.EV_EOF != 0 {
			mask |= EventHangup
		}
		if ev.Flags&unix.EV_ERROR != 0 {
			mask |= EventError
		}
		out = append(out, Completion{Tag: int64(ev.Ident), Events: mask})
	}
	return out, nil
}

func (b *KqueueBackend) Close() error {
	return unix.Close(b.kq)
}
