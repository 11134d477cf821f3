package builtins

import (
	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/lerrors"
	"github.com/nrperez/golisp/internal/types"
)

// registerSeq wires List/Vec/Map predicates, constructors, and
// accessors.
func (r *Registrar) registerSeq(e *env.Env) {
	def(e, "list", func(args []types.Value) (types.Value, error) {
		return types.NewList(args...), nil
	})
	def(e, "vector", func(args []types.Value) (types.Value, error) {
		return types.NewVec(args...), nil
	})
	def(e, "list?", typePredicate(func(v types.Value) bool { _, ok := v.(*types.List); return ok }))
	def(e, "vector?", typePredicate(func(v types.Value) bool { _, ok := v.(*types.Vec); return ok }))
	def(e, "sequential?", typePredicate(types.IsSeq))
	def(e, "map?", typePredicate(func(v types.Value) bool { _, ok := v.(*types.Map); return ok }))
	def(e, "atom?", typePredicate(func(v types.Value) bool { _, ok := v.(*types.Atom); return ok }))

	def(e, "empty?", func(args []types.Value) (types.Value, error) {
		items, err := oneSeq(args, "empty?")
		if err != nil {
			return nil, err
		}
		return types.Bool(len(items) == 0), nil
	})
	def(e, "count", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "count expects exactly 1 argument")
		}
		if _, ok := args[0].(types.NilValue); ok {
			return types.Int(0), nil
		}
		items, ok := types.SeqItems(args[0])
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "count expects a list, vector, or nil, got %s", args[0].Type())
		}
		return types.Int(len(items)), nil
	})

	def(e, "cons", func(args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "cons expects exactly 2 arguments")
		}
		items, ok := types.SeqItems(args[1])
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "cons's second argument must be a list or vector, got %s", args[1].Type())
		}
		out := make([]types.Value, 0, len(items)+1)
		out = append(out, args[0])
		out = append(out, items...)
		return types.NewList(out...), nil
	})

	def(e, "concat", func(args []types.Value) (types.Value, error) {
		var out []types.Value
		for _, a := range args {
			items, ok := types.SeqItems(a)
			if !ok {
				return nil, lerrors.NewRuntimeError(lerrors.TypeError, "concat's arguments must all be lists or vectors, got %s", a.Type())
			}
			out = append(out, items...)
		}
		return types.NewList(out...), nil
	})

	def(e, "vec", func(args []types.Value) (types.Value, error) {
		items, err := oneSeq(args, "vec")
		if err != nil {
			return nil, err
		}
		return types.NewVec(append([]types.Value{}, items...)...), nil
	})

	def(e, "nth", func(args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "nth expects exactly 2 arguments")
		}
		items, ok := types.SeqItems(args[0])
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "nth's first argument must be a list or vector, got %s", args[0].Type())
		}
		idx, err := asInt(args[1])
		if err != nil {
			return nil, err
		}
		if idx < 0 || int(idx) >= len(items) {
			return nil, lerrors.NewRuntimeError(lerrors.OutOfBounds, "nth index %d out of bounds for length %d", idx, len(items))
		}
		return items[idx], nil
	})

	def(e, "first", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "first expects exactly 1 argument")
		}
		if _, ok := args[0].(types.NilValue); ok {
			return types.Nil, nil
		}
		items, ok := types.SeqItems(args[0])
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "first expects a list, vector, or nil, got %s", args[0].Type())
		}
		if len(items) == 0 {
			return types.Nil, nil
		}
		return items[0], nil
	})

	def(e, "rest", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "rest expects exactly 1 argument")
		}
		if _, ok := args[0].(types.NilValue); ok {
			return types.NewList(), nil
		}
		items, ok := types.SeqItems(args[0])
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "rest expects a list, vector, or nil, got %s", args[0].Type())
		}
		if len(items) == 0 {
			return types.NewList(), nil
		}
		return types.NewList(items[1:]...), nil
	})

	// conj: List prepends (each new element at the front, in argument
	// order), Vec appends in order.
	def(e, "conj", func(args []types.Value) (types.Value, error) {
		if len(args) < 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "conj expects at least 1 argument")
		}
		switch coll := args[0].(type) {
		case *types.List:
			out := make([]types.Value, 0, len(coll.Items)+len(args)-1)
			for i := len(args) - 1; i >= 1; i-- {
				out = append(out, args[i])
			}
			out = append(out, coll.Items...)
			return types.NewList(out...), nil
		case *types.Vec:
			out := make([]types.Value, 0, len(coll.Items)+len(args)-1)
			out = append(out, coll.Items...)
			out = append(out, args[1:]...)
			return types.NewVec(out...), nil
		default:
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "conj's first argument must be a list or vector, got %s", args[0].Type())
		}
	})

	// seq: Vec -> List, Str -> List of one-character Strs, a non-empty
	// List passes through, anything empty (or Nil) becomes Nil.
	def(e, "seq", func(args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "seq expects exactly 1 argument")
		}
		switch v := args[0].(type) {
		case types.NilValue:
			return types.Nil, nil
		case *types.List:
			if len(v.Items) == 0 {
				return types.Nil, nil
			}
			return v, nil
		case *types.Vec:
			if len(v.Items) == 0 {
				return types.Nil, nil
			}
			return types.NewList(v.Items...), nil
		case types.Str:
			if len(v) == 0 {
				return types.Nil, nil
			}
			chars := make([]types.Value, 0, len(v))
			for _, r := range string(v) {
				chars = append(chars, types.Str(string(r)))
			}
			return types.NewList(chars...), nil
		default:
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "seq expects a list, vector, string, or nil, got %s", v.Type())
		}
	})

	registerMapBuiltins(e)
}

func registerMapBuiltins(e *env.Env) {
	def(e, "hash-map", func(args []types.Value) (types.Value, error) {
		if len(args)%2 != 0 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "hash-map expects an even number of arguments")
		}
		if err := checkMapKeys(args); err != nil {
			return nil, err
		}
		return types.NewMap(args...), nil
	})

	def(e, "assoc", func(args []types.Value) (types.Value, error) {
		if len(args) < 1 || len(args)%2 != 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "assoc expects a map and an even number of key/value forms")
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "assoc's first argument must be a map, got %s", args[0].Type())
		}
		if err := checkMapKeys(args[1:]); err != nil {
			return nil, err
		}
		out := m.Clone()
		for i := 1; i < len(args); i += 2 {
			out.Set(args[i], args[i+1])
		}
		return out, nil
	})

	def(e, "dissoc", func(args []types.Value) (types.Value, error) {
		if len(args) < 1 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "dissoc expects a map and zero or more keys")
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "dissoc's first argument must be a map, got %s", args[0].Type())
		}
		if err := checkFlatKeys(args[1:]); err != nil {
			return nil, err
		}
		out := m.Clone()
		for _, k := range args[1:] {
			out.Delete(k)
		}
		return out, nil
	})

	def(e, "get", func(args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "get expects exactly 2 arguments")
		}
		if _, ok := args[0].(types.NilValue); ok {
			return types.Nil, nil
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "get's first argument must be a map or nil, got %s", args[0].Type())
		}
		if err := checkFlatKeys(args[1:]); err != nil {
			return nil, err
		}
		v, ok := m.Get(args[1])
		if !ok {
			return types.Nil, nil
		}
		return v, nil
	})

	def(e, "contains?", func(args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "contains? expects exactly 2 arguments")
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, lerrors.NewRuntimeError(lerrors.TypeError, "contains?'s first argument must be a map, got %s", args[0].Type())
		}
		if err := checkFlatKeys(args[1:]); err != nil {
			return nil, err
		}
		_, ok = m.Get(args[1])
		return types.Bool(ok), nil
	})

	def(e, "keys", func(args []types.Value) (types.Value, error) {
		m, err := oneMap(args, "keys")
		if err != nil {
			return nil, err
		}
		out := make([]types.Value, 0, m.Len())
		for _, entry := range m.Entries() {
			out = append(out, entry.Key)
		}
		return types.NewList(out...), nil
	})

	def(e, "vals", func(args []types.Value) (types.Value, error) {
		m, err := oneMap(args, "vals")
		if err != nil {
			return nil, err
		}
		out := make([]types.Value, 0, m.Len())
		for _, entry := range m.Entries() {
			out = append(out, entry.Val)
		}
		return types.NewList(out...), nil
	})
}

// checkMapKeys enforces that only Str and Kw are ever valid Map keys,
// over a flat key/value pair list like hash-map/assoc's args — only
// the even indices (the keys) are checked.
func checkMapKeys(kvPairs []types.Value) error {
	for i := 0; i < len(kvPairs); i += 2 {
		if err := checkKey(kvPairs[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkFlatKeys enforces that only Str and Kw are ever valid Map
// keys, over a list that is nothing but keys (get/dissoc/contains?'s
// trailing arguments) — every element is checked.
func checkFlatKeys(keys []types.Value) error {
	for _, k := range keys {
		if err := checkKey(k); err != nil {
			return err
		}
	}
	return nil
}

func checkKey(k types.Value) error {
	switch k.(type) {
	case types.Str, types.Kw:
		return nil
	default:
		return lerrors.NewRuntimeError(lerrors.TypeError, "map keys must be strings or keywords, got %s", k.Type())
	}
}

func oneSeq(args []types.Value, name string) ([]types.Value, error) {
	if len(args) != 1 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "%s expects exactly 1 argument", name)
	}
	items, ok := types.SeqItems(args[0])
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "%s expects a list or vector, got %s", name, args[0].Type())
	}
	return items, nil
}

func oneMap(args []types.Value, name string) (*types.Map, error) {
	if len(args) != 1 {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "%s expects exactly 1 argument", name)
	}
	m, ok := args[0].(*types.Map)
	if !ok {
		return nil, lerrors.NewRuntimeError(lerrors.TypeError, "%s expects a map, got %s", name, args[0].Type())
	}
	return m, nil
}
