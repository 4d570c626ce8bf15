package evalcache

import (
	"errors"
	"sync"

	"github.com/dop251/goja"
	"github.com/pyrt-dev/pyrt/internal/interfaces"
)

var errNotAGojaProgram = errors.New("evalcache: program was not compiled by GojaInterpreter")

// gojaProgram adapts *goja.Program to interfaces.Program.
type gojaProgram struct {
	src     string
	program *goja.Program
}

func (p *gojaProgram) Source() string { return p.src }

// GojaInterpreter is the Interpreter collaborator the evaluation cache
// dispatches into by default: goja compiles source into its own bytecode
// representation (*goja.Program) on Compile, and Execute runs it against
// a fresh goja.Runtime so that no execution's global state leaks into
// the next: a fresh virtual machine per execution. A single
// *goja.Runtime per GojaInterpreter would share
// globals across executions, which is why one is constructed per Execute
// call rather than stored on the interpreter.
type GojaInterpreter struct {
	mu sync.Mutex
	// setup is run against every fresh runtime before executing a
	// program, letting callers install host functions/globals once per
	// interpreter rather than once per execution.
	setup func(*goja.Runtime)
}

// NewGojaInterpreter constructs an interpreter. setup may be nil.
func NewGojaInterpreter(setup func(*goja.Runtime)) *GojaInterpreter {
	return &GojaInterpreter{setup: setup}
}

// Compile parses and compiles source without executing it.
func (g *GojaInterpreter) Compile(source string) (interfaces.Program, error) {
	prog, err := goja.Compile("<evalcache>", source, false)
	if err != nil {
		return nil, err
	}
	return &gojaProgram{src: source, program: prog}, nil
}

// Execute runs p against a fresh goja.Runtime.
func (g *GojaInterpreter) Execute(p interfaces.Program) (interface{}, error) {
	gp, ok := p.(*gojaProgram)
	if !ok {
		return nil, errNotAGojaProgram
	}
	rt := goja.New()
	g.mu.Lock()
	setup := g.setup
	g.mu.Unlock()
	if setup != nil {
		setup(rt)
	}
	v, err := rt.RunProgram(gp.program)
	if err != nil {
		return nil, err
	}
	return v.Export(), nil
}
