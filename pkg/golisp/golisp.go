// Package golisp is the embeddable engine: a functional-options
// constructor (New(opts...), SetOutput, Eval) wrapped around a single
// rep(source, env) → string entry point. There is no separate
// Parse/type-check stage, since this language's reader productions
// already ARE runtime values.
package golisp

import (
	"bufio"
	"io"

	"github.com/nrperez/golisp/internal/builtins"
	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/eval"
	"github.com/nrperez/golisp/internal/lerrors"
	"github.com/nrperez/golisp/internal/reader"
	"github.com/nrperez/golisp/internal/types"
)

// Option configures an Engine at construction via the
// functional-options pattern.
type Option func(*Engine)

// WithHostName overrides the *host-language* binding an embedding
// REPL front-end's banner reads.
func WithHostName(name string) Option {
	return func(e *Engine) { e.hostName = name }
}

// WithArgv sets *ARGV*, the trailing command-line arguments.
func WithArgv(argv []string) Option {
	return func(e *Engine) { e.argv = argv }
}

// Engine is a single interpreter instance: a global environment with
// builtins and the bootstrap program already installed.
type Engine struct {
	global    *env.Env
	registrar *builtins.Registrar
	hostName  string
	argv      []string
}

// New builds an Engine with the builtin surface and bootstrap program
// installed in a fresh global environment.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		global:    env.New(),
		registrar: builtins.NewRegistrar(),
		hostName:  "golisp",
	}
	for _, opt := range opts {
		opt(e)
	}

	e.registrar.Register(e.global)
	if err := builtins.Bootstrap(e.global, e.argv, e.hostName); err != nil {
		return nil, err
	}
	return e, nil
}

// SetOutput redirects prn/println/readline's prompt output.
func (e *Engine) SetOutput(w io.Writer) {
	e.registrar.Stdout = w
}

// SetInput redirects readline's input source.
func (e *Engine) SetInput(r io.Reader) {
	e.registrar.Stdin = bufio.NewReader(r)
}

// Result is the outcome of one Eval/Rep call.
type Result struct {
	// Output is the readable-mode printed result (empty on EOF no-op).
	Output string
	// Value is the raw evaluated Value, nil on EOF no-op.
	Value types.Value
	// Success is false when evaluation produced an error.
	Success bool
	// Err is the evaluation error, if any.
	Err error
}

// Rep is the single entry point: read, eval, print. Completely
// empty/comment-only source is a no-op: Output is "" and Success is
// true.
func (e *Engine) Rep(source string) Result {
	form, err := reader.NewReader(source).ReadForm()
	if err != nil {
		return Result{Success: false, Err: err}
	}
	if form == nil {
		return Result{Success: true}
	}

	val, err := eval.Eval(form, e.global)
	if err != nil {
		return Result{Success: false, Err: err}
	}
	return Result{Output: val.Readable(), Value: val, Success: true}
}

// Eval is Rep's engine-API alias, returning a (Result, error) pair
// for callers that prefer idiomatic Go error handling over checking
// Result.Success.
func (e *Engine) Eval(source string) (Result, error) {
	r := e.Rep(source)
	return r, r.Err
}

// Global returns the engine's global environment, for embedders that
// want to pre-populate bindings before running a script.
func (e *Engine) Global() *env.Env { return e.global }

// NewDefault builds an Engine wired to process stdout/stdin, the
// common case for cmd/golisp.
func NewDefault(hostName string, argv []string) (*Engine, error) {
	return New(WithHostName(hostName), WithArgv(argv))
}

// FormatError renders err the way the REPL/CLI prints it: a reader
// error gets a caret diagnostic, anything else its plain message.
func FormatError(err error) string {
	if rerr, ok := err.(*lerrors.ReaderError); ok {
		return rerr.Format()
	}
	return err.Error()
}
