package builtins

import (
	"bytes"
	"testing"

	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/types"
)

func newEnv(t *testing.T) (*env.Env, *Registrar) {
	t.Helper()
	e := env.New()
	r := NewRegistrar()
	var out bytes.Buffer
	r.Stdout = &out
	r.Register(e)
	return e, r
}

func call(t *testing.T, e *env.Env, name string, args ...types.Value) types.Value {
	t.Helper()
	v, err := e.Lookup(types.Sym(name))
	if err != nil {
		t.Fatalf("builtin %q not registered: %v", name, err)
	}
	fn, ok := v.(*types.Fn)
	if !ok {
		t.Fatalf("%q is not a builtin Fn", name)
	}
	result, err := fn.Call(args)
	if err != nil {
		t.Fatalf("(%s ...) returned error: %v", name, err)
	}
	return result
}

func callErr(t *testing.T, e *env.Env, name string, args ...types.Value) error {
	t.Helper()
	v, err := e.Lookup(types.Sym(name))
	if err != nil {
		t.Fatalf("builtin %q not registered: %v", name, err)
	}
	fn := v.(*types.Fn)
	_, err = fn.Call(args)
	return err
}

func TestConcatRejectsNonSeqArguments(t *testing.T) {
	e, _ := newEnv(t)
	if err := callErr(t, e, "concat", types.NewList(types.Int(1)), types.Int(5)); err == nil {
		t.Fatalf("expected concat to reject a non-list/vec argument")
	}
}

func TestConcatJoinsListsAndVecs(t *testing.T) {
	e, _ := newEnv(t)
	got := call(t, e, "concat", types.NewList(types.Int(1), types.Int(2)), types.NewVec(types.Int(3)))
	want := types.NewList(types.Int(1), types.Int(2), types.Int(3))
	if !types.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestConjListPrependsReversed(t *testing.T) {
	e, _ := newEnv(t)
	got := call(t, e, "conj", types.NewList(types.Int(1), types.Int(2)), types.Int(3), types.Int(4))
	want := types.NewList(types.Int(4), types.Int(3), types.Int(1), types.Int(2))
	if !types.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestConjVecAppends(t *testing.T) {
	e, _ := newEnv(t)
	got := call(t, e, "conj", types.NewVec(types.Int(1), types.Int(2)), types.Int(3), types.Int(4))
	want := types.NewVec(types.Int(1), types.Int(2), types.Int(3), types.Int(4))
	if !types.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSeqConversions(t *testing.T) {
	e, _ := newEnv(t)

	if got := call(t, e, "seq", types.NewVec(types.Int(1))); !types.Equal(got, types.NewList(types.Int(1))) {
		t.Errorf("seq(vec) = %v", got)
	}
	if got := call(t, e, "seq", types.NewVec()); got != types.Nil {
		t.Errorf("seq(empty vec) should be nil, got %v", got)
	}
	if got := call(t, e, "seq", types.Nil); got != types.Nil {
		t.Errorf("seq(nil) should be nil, got %v", got)
	}
	got := call(t, e, "seq", types.Str("ab"))
	want := types.NewList(types.Str("a"), types.Str("b"))
	if !types.Equal(got, want) {
		t.Errorf("seq(\"ab\") = %v, want %v", got, want)
	}
}

func TestMapBuiltinsEnforceStrKwKeys(t *testing.T) {
	e, _ := newEnv(t)
	m := call(t, e, "hash-map", types.Str("a"), types.Int(1))

	if err := callErr(t, e, "get", m, types.Sym("a")); err == nil {
		t.Errorf("get should reject a Sym key")
	}
	if err := callErr(t, e, "assoc", m, types.Int(1), types.Int(2)); err == nil {
		t.Errorf("assoc should reject an Int key")
	}

	got := call(t, e, "get", m, types.Str("a"))
	if got != types.Int(1) {
		t.Errorf("get(m, \"a\") = %v, want 1", got)
	}
}

func TestDissocRejectsNonStrKwKeyAtAnyPosition(t *testing.T) {
	e, _ := newEnv(t)
	m := call(t, e, "hash-map", types.Str("a"), types.Int(1), types.Str("c"), types.Int(3))

	if err := callErr(t, e, "dissoc", m, types.Int(1), types.Kw(":a")); err == nil {
		t.Errorf("dissoc should reject a non-Str/Kw key in its first position")
	}
	if err := callErr(t, e, "dissoc", m, types.Kw(":a"), types.Int(1)); err == nil {
		t.Errorf("dissoc should reject a non-Str/Kw key in its second position")
	}
}

func TestAssocDissocCopyOnWrite(t *testing.T) {
	e, _ := newEnv(t)
	m := call(t, e, "hash-map", types.Str("a"), types.Int(1)).(*types.Map)

	updated := call(t, e, "assoc", m, types.Str("b"), types.Int(2)).(*types.Map)
	if _, ok := m.Get(types.Str("b")); ok {
		t.Errorf("original map should be unaffected by assoc")
	}
	if v, ok := updated.Get(types.Str("b")); !ok || v != types.Int(2) {
		t.Errorf("updated map should have b=2, got %v, %v", v, ok)
	}

	removed := call(t, e, "dissoc", updated, types.Str("a")).(*types.Map)
	if _, ok := removed.Get(types.Str("a")); ok {
		t.Errorf("dissoc should remove key \"a\"")
	}
	if _, ok := updated.Get(types.Str("a")); !ok {
		t.Errorf("dissoc should not mutate its argument")
	}
}

func TestKeywordConstructorRetainsColon(t *testing.T) {
	e, _ := newEnv(t)
	got := call(t, e, "keyword", types.Str("foo"))
	if got != types.Kw(":foo") {
		t.Errorf("keyword(\"foo\") = %v, want :foo", got)
	}
}

func TestMetaIsReservedAndUnimplemented(t *testing.T) {
	e, _ := newEnv(t)
	if err := callErr(t, e, "meta", types.Int(1)); err == nil {
		t.Errorf("meta should always return an error")
	}
	if err := callErr(t, e, "with-meta", types.Int(1), types.Int(1)); err == nil {
		t.Errorf("with-meta should always return an error")
	}
}

func TestAtomOperations(t *testing.T) {
	e, _ := newEnv(t)
	a := call(t, e, "atom", types.Int(1))
	if got := call(t, e, "deref", a); got != types.Int(1) {
		t.Errorf("deref(atom(1)) = %v, want 1", got)
	}
	call(t, e, "reset!", a, types.Int(2))
	if got := call(t, e, "deref", a); got != types.Int(2) {
		t.Errorf("after reset!, deref = %v, want 2", got)
	}
}

func TestPrStrAndStr(t *testing.T) {
	e, _ := newEnv(t)
	got := call(t, e, "pr-str", types.Str("hi"), types.Int(1))
	if got != types.Str(`"hi" 1`) {
		t.Errorf(`pr-str("hi" 1) = %v, want "hi" 1`, got)
	}
	got2 := call(t, e, "str", types.Str("hi"), types.Int(1))
	if got2 != types.Str("hi1") {
		t.Errorf(`str("hi" 1) = %v, want hi1`, got2)
	}
}

func TestReadStringRoundTrips(t *testing.T) {
	e, _ := newEnv(t)
	got := call(t, e, "read-string", types.Str("(1 2 3)"))
	want := types.NewList(types.Int(1), types.Int(2), types.Int(3))
	if !types.Equal(got, want) {
		t.Errorf("read-string((1 2 3)) = %v, want %v", got, want)
	}
}
