package pyrt

import "github.com/pyrt-dev/pyrt/internal/interfaces"

// MockAllocator is an in-memory Allocator for tests, analogous to the
// teacher repository's MockBackend: it tracks every call rather than
// pooling real buffers, so tests can assert on allocation counts without
// depending on PooledAllocator's size-class behavior.
type MockAllocator struct {
	AllocCalls int
	FreeCalls  int
	FailAlloc  bool
}

func (m *MockAllocator) Alloc(size int) ([]byte, error) {
	m.AllocCalls++
	if m.FailAlloc {
		return nil, &Error{Kind: KindMemoryError, Message: "mock allocator: forced failure"}
	}
	return make([]byte, size), nil
}

func (m *MockAllocator) Free(buf []byte) { m.FreeCalls++ }

func (m *MockAllocator) Stats() AllocatorStats {
	return AllocatorStats{Allocations: uint64(m.AllocCalls), Frees: uint64(m.FreeCalls)}
}

// MockLogger records every call instead of writing anywhere, for tests
// that assert a diagnostic path was (or was not) taken.
type MockLogger struct {
	Lines []string
}

func (m *MockLogger) Printf(format string, args ...interface{}) { m.record(format, args...) }
func (m *MockLogger) Debugf(format string, args ...interface{}) { m.record(format, args...) }
func (m *MockLogger) Errorf(format string, args ...interface{}) { m.record(format, args...) }

func (m *MockLogger) record(format string, args ...interface{}) {
	m.Lines = append(m.Lines, format)
}

var _ interfaces.Logger = (*MockLogger)(nil)

// MockInterpreter is a trivial Interpreter for tests that exercise
// EvalCached's caching behavior without pulling in goja: Compile wraps
// the source verbatim and Execute returns it, recording call counts.
type MockInterpreter struct {
	CompileCalls int
	ExecuteCalls int
}

type mockProgram struct{ src string }

func (p *mockProgram) Source() string { return p.src }

func (m *MockInterpreter) Compile(source string) (interfaces.Program, error) {
	m.CompileCalls++
	return &mockProgram{src: source}, nil
}

func (m *MockInterpreter) Execute(p interfaces.Program) (interface{}, error) {
	m.ExecuteCalls++
	return p.Source(), nil
}
