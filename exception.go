package pyrt

import "github.com/pyrt-dev/pyrt/internal/except"

// SetException installs err as the calling goroutine's pending exception.
// Every fallible operation that returns a failure sentinel must call this
// first, so a sentinel return is always paired with a set exception.
func SetException(err *Error) {
	except.Set(string(err.Kind), err.Message)
}

// GetException returns the calling goroutine's pending exception, if any.
func GetException() (*Error, bool) {
	s, ok := except.Get()
	if !ok {
		return nil, false
	}
	return &Error{Kind: ExceptionKind(s.Kind), Message: s.Message}, true
}

// ClearException removes the calling goroutine's pending exception. A
// caught handler must call this before its body runs.
func ClearException() { except.Clear() }

// HasException reports whether the calling goroutine has a pending
// exception.
func HasException() bool { return except.Has() }
