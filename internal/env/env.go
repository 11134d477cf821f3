// Package env implements the lexically nested symbol table the
// evaluator threads through every call and closure.
package env

import (
	"fmt"

	"github.com/nrperez/golisp/internal/types"
)

// Env is a single lexical frame: a mapping from Sym to Value plus an
// optional outer frame. Lookup walks outward; Define always writes
// into the current frame. Keys are a plain map[string]Value because
// Sym equality is case-sensitive byte-equality.
type Env struct {
	store map[string]types.Value
	outer *Env
}

// New creates a root-level environment with no outer scope — the
// global frame.
func New() *Env {
	return &Env{store: make(map[string]types.Value)}
}

// NewEnclosed creates a child frame nested inside outer.
func NewEnclosed(outer *Env) *Env {
	return &Env{store: make(map[string]types.Value), outer: outer}
}

// Extend builds a child frame over outer, pre-populated with the
// given bindings.
func Extend(outer *Env, bindings map[types.Sym]types.Value) *Env {
	e := NewEnclosed(outer)
	for sym, val := range bindings {
		e.store[string(sym)] = val
	}
	return e
}

// Lookup searches the current frame, then outward.
func (e *Env) Lookup(sym types.Sym) (types.Value, error) {
	for frame := e; frame != nil; frame = frame.outer {
		if v, ok := frame.store[string(sym)]; ok {
			return v, nil
		}
	}
	return nil, &NotFoundError{Sym: sym}
}

// Define unconditionally writes into the current frame, shadowing any
// outer binding of the same name.
func (e *Env) Define(sym types.Sym, val types.Value) {
	e.store[string(sym)] = val
}

// Global walks outer links to the root frame — used by the eval
// primitive so programs loaded from files install definitions at the
// top level.
func (e *Env) Global() *Env {
	frame := e
	for frame.outer != nil {
		frame = frame.outer
	}
	return frame
}

// Outer returns the enclosing frame, or nil at the root.
func (e *Env) Outer() *Env { return e.outer }

// Completions enumerates current-frame keys starting with prefix, for
// an external line-editor's tab completion.
func (e *Env) Completions(prefix string) []string {
	var out []string
	for k := range e.store {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k)
		}
	}
	return out
}

// NotFoundError is returned by Lookup when no frame in the chain
// binds sym.
type NotFoundError struct {
	Sym types.Sym
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("'%s' not found", string(e.Sym))
}
