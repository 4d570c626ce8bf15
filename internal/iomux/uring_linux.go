//go:build linux

package iomux

import (
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// This backend uses the same raw io_uring_setup/io_uring_enter syscalls
// and mmap'd submission/completion rings as a URING_CMD-style ring, but
// drives the standard 64-byte SQE/16-byte CQE layout with
// IORING_OP_POLL_ADD instead of a fixed-purpose 128-byte command SQE.
// This is the kernel-event-queue backend.
const (
	__NR_io_uring_setup = 425
	__NR_io_uring_enter = 426

	ioringOpPollAdd = 6

	ioringSetupSQPOLL = 1 << 1
	ioringEnterGetevents = 1 << 0

	pollAddMultiOff = 0 // single-shot poll; re-register on each fire
)

type ioSqringOffsets struct {
	Head, Tail, RingMask, RingEntries, Flags, Dropped, Array, Resv1 uint32
	Resv2                                                           uint64
}

type ioCqringOffsets struct {
	Head, Tail, RingMask, RingEntries, Overflow, Cqes, Flags, Resv1 uint32
	Resv2                                                           uint64
}

type ioUringParams struct {
	SqEntries, CqEntries, Flags, SqThreadCPU, SqThreadIdle, Features, WqFd uint32
	Resv                                                                   [3]uint32
	SqOff                                                                  ioSqringOffsets
	CqOff                                                                  ioCqringOffsets
}

type ioUringSQE struct {
	Opcode      uint8
	Flags       uint8
	Ioprio      uint16
	Fd          int32
	Off         uint64
	Addr        uint64
	Len         uint32
	OpcodeFlags uint32
	UserData    uint64
	BufIndex    uint16
	Personality uint16
	SpliceFDIn  int32
	Addr3       uint64
	Resv        uint64
}

type ioUringCQE struct {
	UserData uint64
	Res      int32
	Flags    uint32
}

const (
	sqeSize = 64
	cqeSize = 16
)

// UringBackend drives io_uring in pure IORING_OP_POLL_ADD mode: each
// Register submits a poll SQE for fd; each completion corresponds to one
// fired registration, single-shot.
type UringBackend struct {
	ringFd int

	sqMmap, cqMmap, sqeMmap []byte

	sqHead, sqTail, sqMask, sqEntries *uint32
	sqArray                           []uint32
	sqes                              []ioUringSQE

	cqHead, cqTail, cqMask *uint32
	cqes                   []ioUringCQE

	mu            sync.Mutex
	submitSeq     atomic.Uint64
	sqEntriesHint uint32
}

// NewUringBackend constructs an (uninitialized) io_uring backend with the
// given submission/completion queue depth.
func NewUringBackend(depth uint32) *UringBackend {
	return &UringBackend{sqEntriesHint: depth}
}

func (b *UringBackend) Init() error {
	params := ioUringParams{}
	fd, _, errno := syscall.Syscall(__NR_io_uring_setup, uintptr(b.sqEntriesHint), uintptr(unsafe.Pointer(&params)), 0)
	if errno != 0 {
		return fmt.Errorf("iomux: io_uring_setup: %w", errno)
	}
	b.ringFd = int(fd)

	sqRingSz := params.SqOff.Array + params.SqEntries*4
	cqRingSz := params.CqOff.Cqes + params.CqEntries*cqeSize

	sqMmap, err := unix.Mmap(b.ringFd, 0, int(sqRingSz), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return fmt.Errorf("iomux: mmap sq ring: %w", err)
	}
	b.sqMmap = sqMmap

	cqMmap, err := unix.Mmap(b.ringFd, 0x8000000, int(cqRingSz), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return fmt.Errorf("iomux: mmap cq ring: %w", err)
	}
	b.cqMmap = cqMmap

	sqeMmap, err := unix.Mmap(b.ringFd, 0x10000000, int(params.SqEntries)*sqeSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return fmt.Errorf("iomux: mmap sqes: %w", err)
	}
	b.sqeMmap = sqeMmap

	b.sqHead = (*uint32)(unsafe.Pointer(&sqMmap[params.SqOff.Head]))
	b.sqTail = (*uint32)(unsafe.Pointer(&sqMmap[params.SqOff.Tail]))
	b.sqMask = (*uint32)(unsafe.Pointer(&sqMmap[params.SqOff.RingMask]))
	b.sqEntries = (*uint32)(unsafe.Pointer(&sqMmap[params.SqOff.RingEntries]))
	arrPtr := unsafe.Pointer(&sqMmap[params.SqOff.Array])
	b.sqArray = unsafe.Slice((*uint32)(arrPtr), params.SqEntries)
	b.sqes = unsafe.Slice((*ioUringSQE)(unsafe.Pointer(&sqeMmap[0])), params.SqEntries)

	b.cqHead = (*uint32)(unsafe.Pointer(&cqMmap[params.CqOff.Head]))
	b.cqTail = (*uint32)(unsafe.Pointer(&cqMmap[params.CqOff.Tail]))
	b.cqMask = (*uint32)(unsafe.Pointer(&cqMmap[params.CqOff.RingMask]))
	cqesPtr := unsafe.Pointer(&cqMmap[params.CqOff.Cqes])
	b.cqes = unsafe.Slice((*ioUringCQE)(cqesPtr), params.CqEntries)

	return nil
}

func (b *UringBackend) Register(fd int, events EventMask) error {
	var pollMask uint32
	if events&EventRead != 0 {
		pollMask |= unix.POLLIN
	}
	if events&EventWrite != 0 {
		pollMask |= unix.POLLOUT
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tail := atomic.LoadUint32(b.sqTail)
	idx := tail & atomic.LoadUint32(b.sqMask)
	sqe := &b.sqes[idx]
	*sqe = ioUringSQE{
		Opcode:      ioringOpPollAdd,
		Fd:          int32(fd),
		OpcodeFlags: pollMask,
		UserData:    uint64(fd),
	}
	b.sqArray[idx] = idx
	atomic.StoreUint32(b.sqTail, tail+1)

	_, _, errno := syscall.Syscall6(__NR_io_uring_enter, uintptr(b.ringFd), 1, 0, 0, 0, 0)
	if errno != 0 {
		return fmt.Errorf("iomux: io_uring_enter submit: %w", errno)
	}
	return nil
}

func (b *UringBackend) Unregister(fd int) error {
	// IORING_OP_POLL_REMOVE would cancel a still-pending poll; the common
	// case here is the poll has already fired by the time Unregister is
	// called (single-shot completions drain promptly), so this is a
	// best-effort no-op rather than submitting a cancellation SQE.
	return nil
}

func (b *UringBackend) Wait(timeout time.Duration, out []Completion) ([]Completion, error) {
	// Block in io_uring_enter itself rather than polling: min_complete=1
	// with IORING_ENTER_GETEVENTS, bounded by timeout via a companion
	// timer registration would be the production approach; this minimal
	// backend instead submits nothing and waits opportunistically,
	// relying on the Multiplexer's caller to bound total wait time across
	// repeated Poll calls.
	deadline := time.Now().Add(timeout)
	for {
		head := atomic.LoadUint32(b.cqHead)
		tail := atomic.LoadUint32(b.cqTail)
		if head != tail {
			mask := atomic.LoadUint32(b.cqMask)
			for head != tail {
				cqe := b.cqes[head&mask]
				out = append(out, Completion{Tag: int64(cqe.UserData), Events: cqeToMask(cqe.Res)})
				head++
			}
			atomic.StoreUint32(b.cqHead, head)
			return out, nil
		}
		if time.Now().After(deadline) {
			return out, nil
		}
		_, _, errno := syscall.Syscall6(__NR_io_uring_enter, uintptr(b.ringFd), 0, 1, ioringEnterGetevents, 0, 0)
		if errno != 0 && errno != syscall.EINTR && errno != syscall.EAGAIN {
			return out, fmt.Errorf("iomux: io_uring_enter wait: %w", errno)
		}
	}
}

func cqeToMask(res int32) EventMask {
	var m EventMask
	if res&unix.POLLIN != 0 {
		m |= EventRead
	}
	if res&unix.POLLOUT != 0 {
		m |= EventWrite
	}
	if res&unix.POLLERR != 0 {
		m |= EventError
	}
	if res&unix.POLLHUP != 0 {
		m |= EventHangup
	}
	return m
}

func (b *UringBackend) Close() error {
	if b.sqeMmap != nil {
		_ = unix.Munmap(b.sqeMmap)
	}
	if b.cqMmap != nil {
		_ = unix.Munmap(b.cqMmap)
	}
	if b.sqMmap != nil {
		_ = unix.Munmap(b.sqMmap)
	}
	return unix.Close(b.ringFd)
}
