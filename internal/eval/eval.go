// Package eval implements the trampoline evaluator: special-form
// dispatch, function application, macro expansion, and quasiquote.
// The loop is iterative rather than recursive so tail calls in if/do/
// let*/closure-call/macro-expansion positions run in constant Go
// stack space.
package eval

import (
	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/lerrors"
	"github.com/nrperez/golisp/internal/types"
)

// Eval is the evaluator's single entry point. It returns only when it
// produces a terminal value or an error; tail positions are handled
// by reassigning ast/e and iterating, never by recursive calls to
// Eval. Only non-tail sub-evaluations (evalAsData, argument
// evaluation) recurse.
func Eval(ast types.Value, e *env.Env) (types.Value, error) {
	for {
		expanded, err := macroExpand(ast, e)
		if err != nil {
			return nil, err
		}
		ast = expanded

		list, ok := ast.(*types.List)
		if !ok {
			return evalAsData(ast, e)
		}
		if len(list.Items) == 0 {
			return list, nil
		}

		if sym, ok := list.Items[0].(types.Sym); ok {
			switch sym {
			case "def!":
				return evalDef(list.Items[1:], e)
			case "let*":
				newAst, newEnv, err := evalLet(list.Items[1:], e)
				if err != nil {
					return nil, err
				}
				ast, e = newAst, newEnv
				continue
			case "do":
				newAst, err := evalDo(list.Items[1:], e)
				if err != nil {
					return nil, err
				}
				ast = newAst
				continue
			case "if":
				newAst, err := evalIf(list.Items[1:], e)
				if err != nil {
					return nil, err
				}
				ast = newAst
				continue
			case "fn*":
				return evalFnStar(list.Items[1:], e)
			case "quote":
				if len(list.Items) != 2 {
					return nil, lerrors.NewRuntimeError(lerrors.TypeError, "quote expects exactly one argument")
				}
				return list.Items[1], nil
			case "quasiquote":
				if len(list.Items) != 2 {
					return nil, lerrors.NewRuntimeError(lerrors.TypeError, "quasiquote expects exactly one argument")
				}
				return quasiquote(list.Items[1], e)
			case "defmacro!":
				return evalDefmacro(list.Items[1:], e)
			case "macroexpand":
				if len(list.Items) != 2 {
					return nil, lerrors.NewRuntimeError(lerrors.TypeError, "macroexpand expects exactly one argument")
				}
				return macroExpand(list.Items[1], e)
			case "try*":
				return evalTry(list.Items[1:], e)
			}
		}

		// Regular function call: evaluate every element, then apply the
		// head.
		evaluated, err := evalAsData(list, e)
		if err != nil {
			return nil, err
		}
		callList := evaluated.(*types.List)
		head, args := callList.Items[0], callList.Items[1:]

		switch fn := head.(type) {
		case *types.Fn:
			return fn.Call(args)
		case *types.Closure:
			childEnv, err := bindParams(fn, args)
			if err != nil {
				return nil, err
			}
			ast, e = fn.Body, childEnv
			continue
		default:
			return nil, lerrors.NewRuntimeError(lerrors.NotCallable, "%s is not callable", head.Readable())
		}
	}
}

// evalAsData map-evaluates a List/Vec/Map element-wise (not
// tail-recursive), looks up a Sym, or returns anything else unchanged.
func evalAsData(ast types.Value, e *env.Env) (types.Value, error) {
	switch v := ast.(type) {
	case *types.List:
		items := make([]types.Value, len(v.Items))
		for i, item := range v.Items {
			val, err := Eval(item, e)
			if err != nil {
				return nil, err
			}
			items[i] = val
		}
		return types.NewList(items...), nil
	case *types.Vec:
		items := make([]types.Value, len(v.Items))
		for i, item := range v.Items {
			val, err := Eval(item, e)
			if err != nil {
				return nil, err
			}
			items[i] = val
		}
		return types.NewVec(items...), nil
	case *types.Map:
		kvs := make([]types.Value, 0, v.Len()*2)
		for _, entry := range v.Entries() {
			val, err := Eval(entry.Val, e)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, entry.Key, val)
		}
		return types.NewMap(kvs...), nil
	case types.Sym:
		return e.Lookup(v)
	default:
		return ast, nil
	}
}

// macroExpand loops: while the AST is a non-empty List whose head
// resolves to a macro Closure, invoke it on the unevaluated tail,
// fully evaluate the result, and repeat.
func macroExpand(ast types.Value, e *env.Env) (types.Value, error) {
	for {
		list, ok := ast.(*types.List)
		if !ok || len(list.Items) == 0 {
			return ast, nil
		}
		sym, ok := list.Items[0].(types.Sym)
		if !ok {
			return ast, nil
		}
		val, err := e.Lookup(sym)
		if err != nil {
			return ast, nil
		}
		closure, ok := val.(*types.Closure)
		if !ok || !closure.IsMacro {
			return ast, nil
		}

		childEnv, err := bindParams(closure, list.Items[1:])
		if err != nil {
			return nil, err
		}
		expanded, err := Eval(closure.Body, childEnv)
		if err != nil {
			return nil, err
		}
		ast = expanded
	}
}

func evalDef(args []types.Value, e *env.Env) (types.Value, error) {
	if len(args) != 2 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "def! expects (def! sym expr)")
	}
	sym, ok := args[0].(types.Sym)
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "def!'s first argument must be a symbol")
	}
	val, err := Eval(args[1], e)
	if err != nil {
		return nil, err
	}
	e.Define(sym, val)
	return val, nil
}

// evalLet implements let*'s sequential-binding-in-a-child-frame
// semantics and returns the body for the caller to tail-continue.
func evalLet(args []types.Value, e *env.Env) (types.Value, *env.Env, error) {
	if len(args) != 2 {
		return nil, nil, lerrors.NewRuntimeError(lerrors.TypeError, "let* expects (let* bindings body)")
	}
	bindings, ok := types.SeqItems(args[0])
	if !ok {
		return nil, nil, lerrors.NewRuntimeError(lerrors.TypeError, "let*'s bindings must be a list or vector")
	}
	if len(bindings)%2 != 0 {
		return nil, nil, lerrors.NewRuntimeError(lerrors.TypeError, "let*'s bindings must have an even number of forms")
	}

	child := env.NewEnclosed(e)
	for i := 0; i < len(bindings); i += 2 {
		sym, ok := bindings[i].(types.Sym)
		if !ok {
			return nil, nil, lerrors.NewRuntimeError(lerrors.TypeError, "let*'s binding names must be symbols")
		}
		val, err := Eval(bindings[i+1], child)
		if err != nil {
			return nil, nil, err
		}
		child.Define(sym, val)
	}
	return args[1], child, nil
}

// evalDo evaluates all but the last form for effect and returns the
// last for the caller to tail-continue.
func evalDo(args []types.Value, e *env.Env) (types.Value, error) {
	if len(args) == 0 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "do requires at least one form")
	}
	for _, form := range args[:len(args)-1] {
		if _, err := Eval(form, e); err != nil {
			return nil, err
		}
	}
	return args[len(args)-1], nil
}

// evalIf returns the branch to tail-continue.
func evalIf(args []types.Value, e *env.Env) (types.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "if expects (if cond then [else])")
	}
	cond, err := Eval(args[0], e)
	if err != nil {
		return nil, err
	}
	if types.Truthy(cond) {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return types.Nil, nil
}

// evalFnStar builds a Closure capturing the current environment.
func evalFnStar(args []types.Value, e *env.Env) (types.Value, error) {
	if len(args) != 2 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "fn* expects (fn* params body)")
	}
	params, ok := types.SeqItems(args[0])
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "fn*'s params must be a list or vector")
	}

	var syms []types.Sym
	var rest types.Sym
	hasRest := false
	for i := 0; i < len(params); i++ {
		sym, ok := params[i].(types.Sym)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "fn*'s parameters must be symbols")
		}
		if sym == "&" {
			if i+1 >= len(params) {
				return nil, lerrors.NewRuntimeError(lerrors.TypeError, "fn*'s '&' must be followed by a rest parameter")
			}
			restSym, ok := params[i+1].(types.Sym)
			if !ok {
				return nil, lerrors.NewRuntimeError(lerrors.TypeError, "fn*'s rest parameter must be a symbol")
			}
			rest = restSym
			hasRest = true
			break
		}
		syms = append(syms, sym)
	}

	return &types.Closure{Params: syms, Rest: rest, HasRest: hasRest, Body: args[1], Env: e}, nil
}

func evalDefmacro(args []types.Value, e *env.Env) (types.Value, error) {
	if len(args) != 2 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "defmacro! expects (defmacro! sym expr)")
	}
	sym, ok := args[0].(types.Sym)
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "defmacro!'s first argument must be a symbol")
	}
	val, err := Eval(args[1], e)
	if err != nil {
		return nil, err
	}
	closure, ok := val.(*types.Closure)
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "defmacro!'s expression must evaluate to a function")
	}
	closure.IsMacro = true
	e.Define(sym, closure)
	return closure, nil
}

// evalTry implements (try* expr (catch* sym handler)), wrapping
// non-user errors into an Exception value at the catch boundary.
func evalTry(args []types.Value, e *env.Env) (types.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "try* expects (try* expr [(catch* sym handler)])")
	}

	result, err := Eval(args[0], e)
	if err == nil {
		return result, nil
	}
	if _, isReaderErr := err.(*lerrors.ReaderError); isReaderErr {
		// Parse errors are never catchable.
		return nil, err
	}

	exceptionVal := exceptionValueOf(err)

	if len(args) == 1 {
		return exceptionVal, nil
	}

	catchList, ok := args[1].(*types.List)
	if !ok || len(catchList.Items) != 3 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "try*'s catch clause must be (catch* sym handler)")
	}
	if headSym, ok := catchList.Items[0].(types.Sym); !ok || headSym != "catch*" {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "try*'s second form must start with catch*")
	}
	sym, ok := catchList.Items[1].(types.Sym)
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "catch*'s binding name must be a symbol")
	}

	child := env.NewEnclosed(e)
	child.Define(sym, exceptionVal)
	return Eval(catchList.Items[2], child)
}

// exceptionValueOf recovers the Value a thrown error carries, or
// wraps any other Go error's printable form into an Exception.
func exceptionValueOf(err error) types.Value {
	if exc, ok := err.(*types.Exception); ok {
		return exc.Val
	}
	return types.NewException(types.Str(err.Error()))
}

// quasiquote evaluates unquote and splice-unquote segments eagerly
// against env and structurally copies everything else.
func quasiquote(x types.Value, e *env.Env) (types.Value, error) {
	switch v := x.(type) {
	case *types.List:
		if len(v.Items) == 0 {
			return v, nil
		}
		if head, ok := v.Items[0].(types.Sym); ok && head == "unquote" {
			if len(v.Items) != 2 {
				return nil, lerrors.NewRuntimeError(lerrors.TypeError, "unquote expects exactly one argument")
			}
			return Eval(v.Items[1], e)
		}
		items, err := quasiquoteSeq(v.Items, e)
		if err != nil {
			return nil, err
		}
		return types.NewList(items...), nil
	case *types.Vec:
		items, err := quasiquoteSeq(v.Items, e)
		if err != nil {
			return nil, err
		}
		return types.NewVec(items...), nil
	default:
		return x, nil
	}
}

func quasiquoteSeq(elems []types.Value, e *env.Env) ([]types.Value, error) {
	var out []types.Value
	for _, elem := range elems {
		if list, ok := elem.(*types.List); ok && len(list.Items) > 0 {
			if head, ok := list.Items[0].(types.Sym); ok {
				if head == "splice-unquote" {
					if len(list.Items) != 2 {
						return nil, lerrors.NewRuntimeError(lerrors.TypeError, "splice-unquote expects exactly one argument")
					}
					spliced, err := Eval(list.Items[1], e)
					if err != nil {
						return nil, err
					}
					items, ok := types.SeqItems(spliced)
					if !ok {
						return nil, lerrors.NewRuntimeError(lerrors.TypeError, "splice-unquote's argument must evaluate to a list or vector")
					}
					out = append(out, items...)
					continue
				}
				if head == "unquote" {
					if len(list.Items) != 2 {
						return nil, lerrors.NewRuntimeError(lerrors.TypeError, "unquote expects exactly one argument")
					}
					val, err := Eval(list.Items[1], e)
					if err != nil {
						return nil, err
					}
					out = append(out, val)
					continue
				}
			}
		}
		qq, err := quasiquote(elem, e)
		if err != nil {
			return nil, err
		}
		out = append(out, qq)
	}
	return out, nil
}

// bindParams binds fn's arguments against args, producing a child
// frame over the closure's captured environment.
func bindParams(fn *types.Closure, args []types.Value) (*env.Env, error) {
	closureEnv, ok := fn.Env.(*env.Env)
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "closure has no captured environment")
	}

	if fn.HasRest {
		if len(args) < len(fn.Params) {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError,
				"expected at least %d argument(s), got %d", len(fn.Params), len(args))
		}
	} else if len(args) != len(fn.Params) {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError,
			"expected %d argument(s), got %d", len(fn.Params), len(args))
	}

	child := env.NewEnclosed(closureEnv)
	for i, sym := range fn.Params {
		child.Define(sym, args[i])
	}
	if fn.HasRest {
		child.Define(fn.Rest, types.NewList(args[len(fn.Params):]...))
	}
	return child, nil
}

// Apply implements the call contract used by the apply/map/swap!
// builtins: a Fn is invoked directly, a Closure is bound and fully
// evaluated (not tail-continued, since callers here are not the
// trampoline loop). Eval's own function-call branch does the same
// dispatch inline and tail-continues into a Closure's body.
func Apply(fn types.Value, args []types.Value) (types.Value, error) {
	switch f := fn.(type) {
	case *types.Fn:
		return f.Call(args)
	case *types.Closure:
		child, err := bindParams(f, args)
		if err != nil {
			return nil, err
		}
		return Eval(f.Body, child)
	default:
		return nil, lerrors.NewRuntimeError(lerrors.NotCallable, "%s is not callable", fn.Readable())
	}
}
