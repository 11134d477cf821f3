package eval_test

import (
	"testing"

	"github.com/nrperez/golisp/internal/builtins"
	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/eval"
	"github.com/nrperez/golisp/internal/reader"
	"github.com/nrperez/golisp/internal/types"
)

func newGlobal(t *testing.T) *env.Env {
	t.Helper()
	e := env.New()
	builtins.NewRegistrar().Register(e)
	return e
}

func evalSource(t *testing.T, e *env.Env, source string) types.Value {
	t.Helper()
	form, err := reader.NewReader(source).ReadForm()
	if err != nil {
		t.Fatalf("ReadForm(%q) error: %v", source, err)
	}
	v, err := eval.Eval(form, e)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", source, err)
	}
	return v
}

func TestEvalArithmetic(t *testing.T) {
	e := newGlobal(t)
	tests := []struct {
		source string
		want   types.Int
	}{
		{"(+ 1 2 3)", 6},
		{"(- 10 1 2)", 7},
		{"(* 2 3 4)", 24},
		{"(/ 20 2 5)", 2},
		{"(- 5)", -5},
	}
	for _, tt := range tests {
		if got := evalSource(t, e, tt.source); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestEvalDefAndLookup(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(def! x 10)")
	if got := evalSource(t, e, "x"); got != types.Int(10) {
		t.Errorf("x = %v, want 10", got)
	}
}

func TestEvalLetStarSequentialBindings(t *testing.T) {
	e := newGlobal(t)
	got := evalSource(t, e, "(let* (a 1 b (+ a 1)) (+ a b))")
	if got != types.Int(3) {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestEvalIf(t *testing.T) {
	e := newGlobal(t)
	if got := evalSource(t, e, "(if true 1 2)"); got != types.Int(1) {
		t.Errorf("expected 1, got %v", got)
	}
	if got := evalSource(t, e, "(if false 1 2)"); got != types.Int(2) {
		t.Errorf("expected 2, got %v", got)
	}
	if got := evalSource(t, e, "(if false 1)"); got != types.Nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestEvalDo(t *testing.T) {
	e := newGlobal(t)
	got := evalSource(t, e, "(do (def! a 1) (def! b 2) (+ a b))")
	if got != types.Int(3) {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestEvalFnStarClosure(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(def! add (fn* (a b) (+ a b)))")
	got := evalSource(t, e, "(add 3 4)")
	if got != types.Int(7) {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestEvalFnStarRestParam(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(def! f (fn* (a & rest) (count rest)))")
	got := evalSource(t, e, "(f 1 2 3 4)")
	if got != types.Int(3) {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestEvalQuoteDoesNotEvaluate(t *testing.T) {
	e := newGlobal(t)
	got := evalSource(t, e, "(quote (1 2 3))")
	list, ok := got.(*types.List)
	if !ok || len(list.Items) != 3 {
		t.Fatalf("expected an unevaluated 3-element list, got %v", got)
	}
}

func TestEvalQuasiquoteUnquote(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(def! x 5)")
	got := evalSource(t, e, "(quasiquote (1 (unquote x) 3))")
	want := types.NewList(types.Int(1), types.Int(5), types.Int(3))
	if !types.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEvalQuasiquoteSpliceUnquote(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(def! xs (list 2 3))")
	got := evalSource(t, e, "(quasiquote (1 (splice-unquote xs) 4))")
	want := types.NewList(types.Int(1), types.Int(2), types.Int(3), types.Int(4))
	if !types.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEvalDefmacroAndMacroExpand(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(defmacro! unless (fn* (pred a b) (list 'if pred b a)))")
	got := evalSource(t, e, "(unless false 1 2)")
	if got != types.Int(1) {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestEvalTryCatch(t *testing.T) {
	e := newGlobal(t)
	got := evalSource(t, e, `(try* (throw "boom") (catch* e e))`)
	if got != types.Str("boom") {
		t.Errorf("expected \"boom\", got %v", got)
	}
}

func TestEvalTryCatchWrapsNativeError(t *testing.T) {
	e := newGlobal(t)
	got := evalSource(t, e, `(try* (nth (list 1) 5) (catch* e (symbol? e)))`)
	if got != types.False {
		t.Errorf("caught value should not be a symbol, got %v", got)
	}
}

func TestEvalNotCallable(t *testing.T) {
	e := newGlobal(t)
	form, _ := reader.NewReader("(1 2 3)").ReadForm()
	if _, err := eval.Eval(form, e); err == nil {
		t.Fatalf("expected a not-callable error")
	}
}

func TestEvalTailCallDoesNotOverflowStack(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(def! count-down (fn* (n) (if (= n 0) 0 (count-down (- n 1)))))")
	got := evalSource(t, e, "(count-down 100000)")
	if got != types.Int(0) {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestApplyBuiltinAndClosure(t *testing.T) {
	e := newGlobal(t)
	evalSource(t, e, "(def! inc (fn* (x) (+ x 1)))")
	got := evalSource(t, e, "(apply inc (list 41))")
	if got != types.Int(42) {
		t.Errorf("expected 42, got %v", got)
	}
}
