//go:build windows

package iomux

import "time"

// UnsupportedBackend is the Windows placeholder: there is no IOCP
// backend, so Init fails loudly rather than silently degrading to a
// busy-poll loop.
type UnsupportedBackend struct{}

// NewUnsupportedBackend returns a backend whose every method except Close
// fails with ErrUnsupportedPlatform; Close returns nil.
func NewUnsupportedBackend() *UnsupportedBackend { return &UnsupportedBackend{} }

func (b *UnsupportedBackend) Init() error { return ErrUnsupportedPlatform }

func (b *UnsupportedBackend) Register(fd int, events EventMask) error {
	return ErrUnsupportedPlatform
}

func (b *UnsupportedBackend) Unregister(fd int) error { return ErrUnsupportedPlatform }

func (b *UnsupportedBackend) Wait(timeout time.Duration, out []Completion) ([]Completion, error) {
	return out, ErrUnsupportedPlatform
}

func (b *UnsupportedBackend) Close() error { return nil }
