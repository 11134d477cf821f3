package builtins

import (
	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/lerrors"
	"github.com/nrperez/golisp/internal/types"
)

// registerCore wires arithmetic, comparison, equality, type
// predicates, and the symbol/keyword constructors.
func (r *Registrar) registerCore(e *env.Env) {
	def(e, "+", intFold(0, func(a, b int64) int64 { return a + b }))
	def(e, "-", intFoldOrNegate(func(a, b int64) int64 { return a - b }, func(a int64) int64 { return -a }))
	def(e, "*", intFold(1, func(a, b int64) int64 { return a * b }))
	def(e, "/", intDivide)

	def(e, "<", intCompare(func(a, b int64) bool { return a < b }))
	def(e, "<=", intCompare(func(a, b int64) bool { return a <= b }))
	def(e, ">", intCompare(func(a, b int64) bool { return a > b }))
	def(e, ">=", intCompare(func(a, b int64) bool { return a >= b }))

	def(e, "=", func(args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "= expects exactly 2 arguments")
		}
		return types.Bool(types.Equal(args[0], args[1])), nil
	})

	def(e, "nil?", typePredicate(func(v types.Value) bool { _, ok := v.(types.NilValue); return ok }))
	def(e, "true?", typePredicate(func(v types.Value) bool { b, ok := v.(types.Bool); return ok && bool(b) }))
	def(e, "false?", typePredicate(func(v types.Value) bool { b, ok := v.(types.Bool); return ok && !bool(b) }))
	def(e, "symbol?", typePredicate(func(v types.Value) bool { _, ok := v.(types.Sym); return ok }))
	def(e, "keyword?", typePredicate(func(v types.Value) bool { _, ok := v.(types.Kw); return ok }))
	def(e, "number?", typePredicate(func(v types.Value) bool { _, ok := v.(types.Int); return ok }))
	def(e, "string?", typePredicate(func(v types.Value) bool { _, ok := v.(types.Str); return ok }))
	def(e, "fn?", typePredicate(func(v types.Value) bool {
		switch f := v.(type) {
		case *types.Fn:
			return true
		case *types.Closure:
			return !f.IsMacro
		}
		return false
	}))
	def(e, "macro?", typePredicate(func(v types.Value) bool {
		c, ok := v.(*types.Closure)
		return ok && c.IsMacro
	}))

	def(e, "symbol", func(args []types.Value) (types.Value, error) {
		s, err := oneStr(args, "symbol")
		if err != nil {
			return nil, err
		}
		return types.Sym(s), nil
	})
	def(e, "keyword", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "keyword expects exactly 1 argument")
		}
		switch v := args[0].(type) {
		case types.Str:
			return types.Kw(":" + string(v)), nil
		case types.Kw:
			return v, nil
		default:
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "keyword expects a string or keyword, got %s", v.Type())
		}
	})

	// meta/with-meta are reserved names; no value variant carries
	// metadata yet, so both always fail.
	def(e, "meta", func(args []types.Value) (types.Value, error) {
		return nil, lerrors.NewRuntimeError(lerrors.Unimplemented, "meta is reserved and unimplemented")
	})
	def(e, "with-meta", func(args []types.Value) (types.Value, error) {
		return nil, lerrors.NewRuntimeError(lerrors.Unimplemented, "with-meta is reserved and unimplemented")
	})
}

func intFold(identity int64, combine func(a, b int64) int64) func([]types.Value) (types.Value, error) {
	return func(args []types.Value) (types.Value, error) {
		acc := identity
		for _, a := range args {
			n, err := asInt(a)
			if err != nil {
				return nil, err
			}
			acc = combine(acc, n)
		}
		return types.Int(acc), nil
	}
}

// intFoldOrNegate handles "-"'s single-argument negation case
// ("(- 5)" => -5) alongside its binary/fold behavior.
func intFoldOrNegate(combine func(a, b int64) int64, negate func(int64) int64) func([]types.Value) (types.Value, error) {
	return func(args []types.Value) (types.Value, error) {
		if len(args) == 0 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "- expects at least 1 argument")
		}
		first, err := asInt(args[0])
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return types.Int(negate(first)), nil
		}
		acc := first
		for _, a := range args[1:] {
			n, err := asInt(a)
			if err != nil {
				return nil, err
			}
			acc = combine(acc, n)
		}
		return types.Int(acc), nil
	}
}

func intDivide(args []types.Value) (types.Value, error) {
	if len(args) < 1 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "/ expects at least 1 argument")
	}
	first, err := asInt(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if first == 0 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "division by zero")
		}
		return types.Int(1 / first), nil
	}
	acc := first
	for _, a := range args[1:] {
		n, err := asInt(a)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "division by zero")
		}
		acc /= n
	}
	return types.Int(acc), nil
}

func intCompare(cmp func(a, b int64) bool) func([]types.Value) (types.Value, error) {
	return func(args []types.Value) (types.Value, error) {
		if len(args) < 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "comparison expects at least 2 arguments")
		}
		for i := 0; i < len(args)-1; i++ {
			a, err := asInt(args[i])
			if err != nil {
				return nil, err
			}
			b, err := asInt(args[i+1])
			if err != nil {
				return nil, err
			}
			if !cmp(a, b) {
				return types.False, nil
			}
		}
		return types.True, nil
	}
}

func typePredicate(pred func(types.Value) bool) func([]types.Value) (types.Value, error) {
	return func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "predicate expects exactly 1 argument")
		}
		return types.Bool(pred(args[0])), nil
	}
}

func asInt(v types.Value) (int64, error) {
	n, ok := v.(types.Int)
	if !ok {
		return 0, lerrors.NewRuntimeError(lerrors.TypeError, "expected an integer, got %s", v.Type())
	}
	return int64(n), nil
}

func oneStr(args []types.Value, name string) (string, error) {
	if len(args) != 1 {
		return "", lerrors.NewRuntimeError(lerrors.TypeError, "%s expects exactly 1 argument", name)
	}
	s, ok := args[0].(types.Str)
	if !ok {
		return "", lerrors.NewRuntimeError(lerrors.TypeError, "%s expects a string, got %s", name, args[0].Type())
	}
	return string(s), nil
}
