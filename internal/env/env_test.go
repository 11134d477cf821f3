package env

import (
	"testing"

	"github.com/nrperez/golisp/internal/types"
)

func TestDefineAndLookup(t *testing.T) {
	e := New()
	e.Define("x", types.Int(1))

	v, err := e.Lookup("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != types.Int(1) {
		t.Errorf("expected 1, got %v", v)
	}
}

func TestLookupWalksOuterFrames(t *testing.T) {
	outer := New()
	outer.Define("x", types.Int(10))
	inner := NewEnclosed(outer)

	v, err := inner.Lookup("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != types.Int(10) {
		t.Errorf("expected 10, got %v", v)
	}
}

func TestDefineShadowsOuter(t *testing.T) {
	outer := New()
	outer.Define("x", types.Int(1))
	inner := NewEnclosed(outer)
	inner.Define("x", types.Int(2))

	v, _ := inner.Lookup("x")
	if v != types.Int(2) {
		t.Errorf("expected inner's 2, got %v", v)
	}
	ov, _ := outer.Lookup("x")
	if ov != types.Int(1) {
		t.Errorf("outer's binding should be unaffected, got %v", ov)
	}
}

func TestLookupNotFound(t *testing.T) {
	e := New()
	_, err := e.Lookup("missing")
	if err == nil {
		t.Fatalf("expected a NotFoundError")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("expected *NotFoundError, got %T", err)
	}
}

func TestSymEqualityIsCaseSensitive(t *testing.T) {
	e := New()
	e.Define("Foo", types.Int(1))
	if _, err := e.Lookup("foo"); err == nil {
		t.Errorf("lookup of differently-cased symbol should fail")
	}
}

func TestGlobalWalksToRoot(t *testing.T) {
	root := New()
	mid := NewEnclosed(root)
	leaf := NewEnclosed(mid)

	if leaf.Global() != root {
		t.Errorf("Global() should return the root frame")
	}
}

func TestExtend(t *testing.T) {
	outer := New()
	e := Extend(outer, map[types.Sym]types.Value{"a": types.Int(1), "b": types.Int(2)})

	v, err := e.Lookup("a")
	if err != nil || v != types.Int(1) {
		t.Errorf("Lookup(a) = %v, %v; want 1, nil", v, err)
	}
	if e.Outer() != outer {
		t.Errorf("Extend should nest inside outer")
	}
}

func TestCompletions(t *testing.T) {
	e := New()
	e.Define("list", types.Nil)
	e.Define("list?", types.Nil)
	e.Define("vector", types.Nil)

	got := e.Completions("list")
	if len(got) != 2 {
		t.Fatalf("expected 2 completions, got %d: %v", len(got), got)
	}
}
