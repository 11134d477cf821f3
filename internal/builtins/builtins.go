// Package builtins registers the native (Fn) function surface in the
// global environment. Each category lives in its own file; Register
// wires them all.
package builtins

import (
	"bufio"
	"io"
	"os"

	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/types"
)

// Registrar holds the I/O handles builtins that read/write need
// (readline, prn/println).
type Registrar struct {
	Stdout io.Writer
	Stdin  *bufio.Reader
}

// NewRegistrar builds a Registrar wired to the process's stdout/stdin.
func NewRegistrar() *Registrar {
	return &Registrar{Stdout: os.Stdout, Stdin: bufio.NewReader(os.Stdin)}
}

// Register installs every builtin into e's current frame — called
// once against the global environment before the bootstrap program
// runs.
func (r *Registrar) Register(e *env.Env) {
	r.registerCore(e)
	r.registerSeq(e)
	r.registerIO(e)
	r.registerControl(e)
}

func def(e *env.Env, name string, call func(args []types.Value) (types.Value, error)) {
	e.Define(types.Sym(name), &types.Fn{Name: name, Call: call})
}
