package builtins

import (
	"time"

	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/eval"
	"github.com/nrperez/golisp/internal/lerrors"
	"github.com/nrperez/golisp/internal/types"
)

// registerControl wires throw/apply/map/eval/time-ms and the atom
// operations.
func (r *Registrar) registerControl(e *env.Env) {
	def(e, "throw", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "throw expects exactly 1 argument")
		}
		return nil, types.NewException(args[0])
	})

	def(e, "apply", func(args []types.Value) (types.Value, error) {
		if len(args) < 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "apply expects a function and at least 1 argument")
		}
		last := args[len(args)-1]
		tail, ok := types.SeqItems(last)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "apply's last argument must be a list or vector, got %s", last.Type())
		}
		callArgs := make([]types.Value, 0, len(args)-2+len(tail))
		callArgs = append(callArgs, args[1:len(args)-1]...)
		callArgs = append(callArgs, tail...)
		return eval.Apply(args[0], callArgs)
	})

	def(e, "map", func(args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "map expects exactly 2 arguments")
		}
		items, ok := types.SeqItems(args[1])
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "map's second argument must be a list or vector, got %s", args[1].Type())
		}
		out := make([]types.Value, len(items))
		for i, item := range items {
			v, err := eval.Apply(args[0], []types.Value{item})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return types.NewList(out...), nil
	})

	def(e, "eval", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "eval expects exactly 1 argument")
		}
		// Evaluate in the global frame, walking outer links, so that
		// programs loaded from files install definitions globally.
		return eval.Eval(args[0], e.Global())
	})

	def(e, "time-ms", func(args []types.Value) (types.Value, error) {
		if len(args) != 0 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "time-ms expects no arguments")
		}
		return types.Int(time.Now().UnixMilli()), nil
	})

	def(e, "atom", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "atom expects exactly 1 argument")
		}
		return types.NewAtom(args[0]), nil
	})

	def(e, "deref", func(args []types.Value) (types.Value, error) {
		a, err := oneAtom(args, "deref")
		if err != nil {
			return nil, err
		}
		return a.Val, nil
	})

	def(e, "reset!", func(args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "reset! expects exactly 2 arguments")
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "reset!'s first argument must be an atom, got %s", args[0].Type())
		}
		a.Val = args[1]
		return a.Val, nil
	})

	def(e, "swap!", func(args []types.Value) (types.Value, error) {
		if len(args) < 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "swap! expects an atom, a function, and zero or more extra arguments")
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "swap!'s first argument must be an atom, got %s", args[0].Type())
		}
		callArgs := make([]types.Value, 0, len(args)-1)
		callArgs = append(callArgs, a.Val)
		callArgs = append(callArgs, args[2:]...)
		newVal, err := eval.Apply(args[1], callArgs)
		if err != nil {
			return nil, err
		}
		a.Val = newVal
		return newVal, nil
	})
}

func oneAtom(args []types.Value, name string) (*types.Atom, error) {
	if len(args) != 1 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "%s expects exactly 1 argument", name)
	}
	a, ok := args[0].(*types.Atom)
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "%s expects an atom, got %s", name, args[0].Type())
	}
	return a, nil
}
