package pyrt

import "fmt"

// ExceptionKind is the fixed vocabulary of structured error kinds: a
// small closed set of string constants used for both repr and
// cross-module catch dispatch.
type ExceptionKind string

const (
	KindTypeError            ExceptionKind = "TypeError"
	KindValueError           ExceptionKind = "ValueError"
	KindKeyError             ExceptionKind = "KeyError"
	KindIndexError           ExceptionKind = "IndexError"
	KindZeroDivisionError    ExceptionKind = "ZeroDivisionError"
	KindAttributeError       ExceptionKind = "AttributeError"
	KindNameError            ExceptionKind = "NameError"
	KindFileNotFoundError    ExceptionKind = "FileNotFoundError"
	KindIOError              ExceptionKind = "IOError"
	KindRuntimeError         ExceptionKind = "RuntimeError"
	KindStopIteration        ExceptionKind = "StopIteration"
	KindNotImplementedError  ExceptionKind = "NotImplementedError"
	KindAssertionError       ExceptionKind = "AssertionError"
	KindOverflowError        ExceptionKind = "OverflowError"
	KindImportError          ExceptionKind = "ImportError"
	KindModuleNotFoundError  ExceptionKind = "ModuleNotFoundError"
	KindOSError              ExceptionKind = "OSError"
	KindPermissionError      ExceptionKind = "PermissionError"
	KindTimeoutError         ExceptionKind = "TimeoutError"
	KindConnectionError      ExceptionKind = "ConnectionError"
	KindRecursionError       ExceptionKind = "RecursionError"
	KindMemoryError          ExceptionKind = "MemoryError"
	KindLookupError          ExceptionKind = "LookupError"
	KindArithmeticError      ExceptionKind = "ArithmeticError"
	KindBufferError          ExceptionKind = "BufferError"
	KindEOFError             ExceptionKind = "EOFError"
	KindGeneratorExit        ExceptionKind = "GeneratorExit"
	KindSystemExit           ExceptionKind = "SystemExit"
	KindKeyboardInterrupt    ExceptionKind = "KeyboardInterrupt"
	KindSyntaxError          ExceptionKind = "SyntaxError"
	KindUnicodeError         ExceptionKind = "UnicodeError"
	KindUnicodeDecodeError   ExceptionKind = "UnicodeDecodeError"
	KindUnicodeEncodeError   ExceptionKind = "UnicodeEncodeError"
	KindBaseException        ExceptionKind = "BaseException"
	KindException            ExceptionKind = "Exception"
)

// parents encodes the shallow subset hierarchy used for catch dispatch:
// OSError ⊃ {FileNotFoundError, PermissionError,
// TimeoutError, ConnectionError}; LookupError ⊃ {KeyError, IndexError};
// ArithmeticError ⊃ {ZeroDivisionError, OverflowError}; ImportError ⊃
// ModuleNotFoundError; UnicodeError ⊃ {UnicodeDecodeError,
// UnicodeEncodeError}; everything rolls up to Exception then
// BaseException, except the exit-style kinds which skip straight to
// BaseException (SystemExit/KeyboardInterrupt/GeneratorExit are not
// caught by a bare `except Exception` in Python).
var parents = map[ExceptionKind]ExceptionKind{
	KindFileNotFoundError:   KindOSError,
	KindPermissionError:     KindOSError,
	KindTimeoutError:        KindOSError,
	KindConnectionError:     KindOSError,
	KindIOError:             KindOSError,
	KindKeyError:            KindLookupError,
	KindIndexError:          KindLookupError,
	KindZeroDivisionError:   KindArithmeticError,
	KindOverflowError:       KindArithmeticError,
	KindModuleNotFoundError: KindImportError,
	KindUnicodeDecodeError:  KindUnicodeError,
	KindUnicodeEncodeError:  KindUnicodeError,

	KindOSError:             KindException,
	KindLookupError:         KindException,
	KindArithmeticError:     KindException,
	KindImportError:         KindException,
	KindUnicodeError:        KindException,
	KindTypeError:           KindException,
	KindValueError:          KindException,
	KindAttributeError:      KindException,
	KindNameError:           KindException,
	KindRuntimeError:        KindException,
	KindStopIteration:       KindException,
	KindNotImplementedError: KindException,
	KindAssertionError:      KindException,
	KindRecursionError:      KindException,
	KindMemoryError:         KindException,
	KindBufferError:         KindException,
	KindEOFError:            KindException,
	KindSyntaxError:         KindException,

	KindException:         KindBaseException,
	KindGeneratorExit:      KindBaseException,
	KindSystemExit:         KindBaseException,
	KindKeyboardInterrupt:  KindBaseException,
}

// IsSubkind reports whether kind is kind itself or, transitively, a
// descendant of ancestor in the hierarchy above (e.g.
// IsSubkind(KindKeyError, KindLookupError) == true).
func IsSubkind(kind, ancestor ExceptionKind) bool {
	for k := kind; ; {
		if k == ancestor {
			return true
		}
		p, ok := parents[k]
		if !ok {
			return false
		}
		k = p
	}
}

// Error is the Go error form of the structured exception state. Failure
// paths that return a Go error (type hooks, Iter, NewBytes, the Runtime
// methods) return one of these; paths that return a sentinel (Hash,
// Arith, RichCompareOrdered) set the exception channel (internal/except)
// instead, and Iter and NewBytes do both. Op names the
// operation that failed (e.g. "iomux.Register", "evalcache.Compile") for
// collaborators outside the bytecode-execution path, where there is no
// surrounding traceback to supply that context; Inner optionally wraps
// the lower-level cause (a syscall error, a goja compile error) so
// errors.Unwrap keeps working across the boundary.
type Error struct {
	Op      string
	Kind    ExceptionKind
	Message string
	Inner   error
}

func (e *Error) Error() string {
	var b string
	switch {
	case e.Op != "" && e.Message != "":
		b = fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	case e.Op != "":
		b = fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Message != "":
		b = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		b = string(e.Kind)
	}
	if e.Inner != nil {
		return b + ": " + e.Inner.Error()
	}
	return b
}

// Unwrap exposes Inner to errors.Unwrap/errors.As.
func (e *Error) Unwrap() error { return e.Inner }

// Is supports errors.Is(err, target) matching by kind, including
// ancestor kinds (errors.Is(err, pyrt.NewRuntimeError(pyrt.KindOSError,
// "")) matches a FileNotFoundError).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return IsSubkind(e.Kind, t.Kind)
}

// NewRuntimeError constructs an *Error without touching the exception
// channel; use SetException to additionally install it as the current
// goroutine's pending exception.
func NewRuntimeError(kind ExceptionKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError constructs an *Error tagging op as the failing operation and
// wrapping cause, for collaborators (internal/iomux, internal/evalcache)
// that surface a lower-level Go error through the exception vocabulary.
func WrapError(op string, kind ExceptionKind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Inner: cause}
}
