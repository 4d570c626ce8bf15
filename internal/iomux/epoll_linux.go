//go:build linux

package iomux

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// EpollBackend is the readiness-notification backend for Linux, grounded
// on the FastPoller design: one epoll instance, level-triggered oneshot
// (EPOLLONESHOT) registrations so every wakeup is consumed exactly once
// without the caller racing a re-arm against a fresh event.
type EpollBackend struct {
	epfd int

	mu      sync.Mutex
	fdToTag map[int]int64

	eventBuf [256]unix.EpollEvent
}

// NewEpollBackend constructs an (uninitialized) epoll backend.
func NewEpollBackend() *EpollBackend {
	return &EpollBackend{fdToTag: make(map[int]int64)}
}

func (b *EpollBackend) Init() error {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	b.epfd = fd
	return nil
}

func toEpollEvents(events EventMask) uint32 {
	var e uint32
	if events&EventRead != 0 {
		e |= unix.EPOLLIN
	}
	if events&EventWrite != 0 {
		e |= unix.EPOLLOUT
	}
	// EPOLLONESHOT: single-shot; the caller must Register again to wait a
	// second time.
	e |= unix.EPOLLONESHOT
	return e
}

func (b *EpollBackend) Register(fd int, events EventMask) error {
	ev := unix.EpollEvent{Events: toEpollEvents(events), Fd: int32(fd)}
	b.mu.Lock()
	_, exists := b.fdToTag[fd]
	b.mu.Unlock()
	op := unix.EPOLL_CTL_ADD
	if exists {
		op = unix.EPOLL_CTL_MOD
	}
	if err := unix.EpollCtl(b.epfd, op, fd, &ev); err != nil {
		return err
	}
	b.mu.Lock()
	b.fdToTag[fd] = int64(fd)
	b.mu.Unlock()
	return nil
}

func (b *EpollBackend) Unregister(fd int) error {
	err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	b.mu.Lock()
	delete(b.fdToTag, fd)
	b.mu.Unlock()
	return err
}

func (b *EpollBackend) Wait(timeout time.Duration, out []Completion) ([]Completion, error) {
	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}
	n, err := unix.EpollWait(b.epfd, b.eventBuf[:], ms)
	if err != nil {
		if err == unix.EINTR {
			return out, nil
		}
		return out, err
	}
	for i := 0; i < n; i++ {
		ev := b.eventBuf[i]
		var mask EventMask
		if ev.Events&unix.EPOLLIN != 0 {
			mask |= EventRead
		}
		if ev.Events&unix.EPOLLOUT != 0 {
			mask |= EventWrite
		}
		if ev.Events&(unix.EPOLLERR) != 0 {
			mask |= EventError
		}
		if ev.Events&unix.EPOLLHUP != 0 {
			mask |= EventHangup
		}
		out = append(out, Completion{Tag: int64(ev.Fd), Events: mask})
	}
	return out, nil
}

func (b *EpollBackend) Close() error {
	return unix.Close(b.epfd)
}
