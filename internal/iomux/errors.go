package iomux

import "errors"

// ErrClosed is returned by operations attempted after Deinit.
var ErrClosed = errors.New("iomux: multiplexer closed")

// ErrUnsupportedPlatform is returned by the Init, Register, Unregister and
// Wait methods of the backend for platforms with no wired readiness
// mechanism.
var ErrUnsupportedPlatform = errors.New("iomux: no multiplexer backend for this platform")
