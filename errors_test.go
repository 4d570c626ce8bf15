package pyrt

import (
	"errors"
	"testing"
)

func TestIsSubkindTransitiveAncestry(t *testing.T) {
	if !IsSubkind(KindKeyError, KindLookupError) {
		t.Fatal("KeyError should be a subkind of LookupError")
	}
	if !IsSubkind(KindKeyError, KindException) {
		t.Fatal("KeyError should transitively roll up to Exception")
	}
	if !IsSubkind(KindFileNotFoundError, KindOSError) {
		t.Fatal("FileNotFoundError should be a subkind of OSError")
	}
	if IsSubkind(KindKeyError, KindArithmeticError) {
		t.Fatal("KeyError should not be a subkind of ArithmeticError")
	}
	if !IsSubkind(KindZeroDivisionError, KindException) {
		t.Fatal("ZeroDivisionError should roll up through ArithmeticError to Exception")
	}
}

func TestExitKindsDoNotRollUpToException(t *testing.T) {
	for _, k := range []ExceptionKind{KindSystemExit, KindKeyboardInterrupt, KindGeneratorExit} {
		if IsSubkind(k, KindException) {
			t.Fatalf("%s should not be a subkind of Exception", k)
		}
		if !IsSubkind(k, KindBaseException) {
			t.Fatalf("%s should be a subkind of BaseException", k)
		}
	}
}

func TestErrorIsMatchesByAncestry(t *testing.T) {
	err := NewRuntimeError(KindFileNotFoundError, "no such file")
	target := NewRuntimeError(KindOSError, "")
	if !errors.Is(err, target) {
		t.Fatal("errors.Is should match FileNotFoundError against an OSError target")
	}
	unrelated := NewRuntimeError(KindTypeError, "")
	if errors.Is(err, unrelated) {
		t.Fatal("errors.Is should not match FileNotFoundError against TypeError")
	}
}

func TestErrorStringIncludesMessage(t *testing.T) {
	err := NewRuntimeError(KindValueError, "bad input")
	if got, want := err.Error(), "ValueError: bad input"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	bare := NewRuntimeError(KindStopIteration, "")
	if got, want := bare.Error(), "StopIteration"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
