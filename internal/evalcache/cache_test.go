package evalcache

import (
	"sync/atomic"
	"testing"

	"github.com/pyrt-dev/pyrt/internal/interfaces"
)

// countingProgram/countingInterpreter let the test observe exactly how
// many times Compile is invoked, independent of goja.
type countingProgram struct{ src string }

func (p *countingProgram) Source() string { return p.src }

type countingInterpreter struct {
	compiles atomic.Int64
	execute  func(interfaces.Program) (any, error)
}

func (c *countingInterpreter) Compile(source string) (interfaces.Program, error) {
	c.compiles.Add(1)
	return &countingProgram{src: source}, nil
}

func (c *countingInterpreter) Execute(p interfaces.Program) (any, error) {
	if c.execute != nil {
		return c.execute(p)
	}
	return p.Source(), nil
}

// TestEvalCachedCompilesOnce exercises the `eval_cached("1 + 2")`
// scenario: the first call compiles, the second reuses the cached
// program, and both calls execute.
func TestEvalCachedCompilesOnce(t *testing.T) {
	interp := &countingInterpreter{}
	c := New(interp, nil)

	v1, err := c.EvalCached("1 + 2")
	if err != nil {
		t.Fatalf("EvalCached: %v", err)
	}
	v2, err := c.EvalCached("1 + 2")
	if err != nil {
		t.Fatalf("EvalCached: %v", err)
	}
	if v1 != "1 + 2" || v2 != "1 + 2" {
		t.Fatalf("unexpected results: %v, %v", v1, v2)
	}
	if got := interp.compiles.Load(); got != 1 {
		t.Fatalf("Compile called %d times, want 1", got)
	}
	if got := c.CompileCount(); got != 1 {
		t.Fatalf("CompileCount() = %d, want 1", got)
	}
}

func TestEvalCachedDistinctSourcesCompileSeparately(t *testing.T) {
	interp := &countingInterpreter{}
	c := New(interp, nil)

	if _, err := c.EvalCached("1 + 2"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.EvalCached("2 + 3"); err != nil {
		t.Fatal(err)
	}
	if got := interp.compiles.Load(); got != 2 {
		t.Fatalf("Compile called %d times, want 2", got)
	}
}

func TestClearForcesRecompile(t *testing.T) {
	interp := &countingInterpreter{}
	c := New(interp, nil)
	_, _ = c.EvalCached("x")
	c.Clear()
	_, _ = c.EvalCached("x")
	if got := interp.compiles.Load(); got != 2 {
		t.Fatalf("Compile called %d times after Clear, want 2", got)
	}
}
