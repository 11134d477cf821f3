// Package types defines the runtime value universe: the tagged variants
// every reader production and evaluator result belongs to.
package types

import (
	"sort"
	"strconv"
	"strings"
)

// Value is the interface every runtime value implements. Dispatch is
// by concrete type, never by a shared interface{} payload.
type Value interface {
	// Type returns the variant's type tag (e.g. "INT", "SYM").
	Type() string
	// String renders the value in displayed (non-escaping) mode.
	String() string
	// Readable renders the value in readable mode: strings, including
	// those nested in collections, atoms and exceptions, are quoted and
	// escaped; everything else is identical to String().
	Readable() string
}

// NilValue is the single absence-of-value. Use Nil, not &NilValue{}.
type NilValue struct{}

func (NilValue) Type() string     { return "NIL" }
func (NilValue) String() string   { return "nil" }
func (NilValue) Readable() string { return "nil" }

// Nil is the shared Nil singleton.
var Nil = NilValue{}

// Bool is a boolean value.
type Bool bool

func (b Bool) Type() string { return "BOOL" }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Readable() string { return b.String() }

// True and False are the shared Bool singletons.
var (
	True  = Bool(true)
	False = Bool(false)
)

// Int is a 64-bit signed integer.
type Int int64

func (i Int) Type() string     { return "INT" }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Int) Readable() string { return i.String() }

// Str is an opaque Unicode string. The payload is the decoded string;
// the reader strips escapes, Readable() re-adds them.
type Str string

func (s Str) Type() string   { return "STR" }
func (s Str) String() string { return string(s) }
func (s Str) Readable() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Sym is a symbol: an identifier compared by case-sensitive byte
// equality, used as an environment key.
type Sym string

func (s Sym) Type() string     { return "SYM" }
func (s Sym) String() string   { return string(s) }
func (s Sym) Readable() string { return string(s) }

// Kw is a keyword: self-evaluating, usable as a Map key, and printed
// with its leading colon retained.
type Kw string

func (k Kw) Type() string     { return "KW" }
func (k Kw) String() string   { return string(k) }
func (k Kw) Readable() string { return string(k) }

// List is an ordered sequence printed as "( … )".
type List struct {
	Items []Value
}

func NewList(items ...Value) *List { return &List{Items: items} }

func (l *List) Type() string     { return "LIST" }
func (l *List) String() string   { return seqString("(", ")", l.Items, false) }
func (l *List) Readable() string { return seqString("(", ")", l.Items, true) }

// Vec is an ordered sequence printed as "[ … ]". It evaluates
// element-wise but is never called as a function.
type Vec struct {
	Items []Value
}

func NewVec(items ...Value) *Vec { return &Vec{Items: items} }

func (v *Vec) Type() string     { return "VEC" }
func (v *Vec) String() string   { return seqString("[", "]", v.Items, false) }
func (v *Vec) Readable() string { return seqString("[", "]", v.Items, true) }

func seqString(open, close string, items []Value, readable bool) string {
	var sb strings.Builder
	sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if readable {
			sb.WriteString(item.Readable())
		} else {
			sb.WriteString(item.String())
		}
	}
	sb.WriteString(close)
	return sb.String()
}

// mapKey canonicalizes a Value for use as a Go map key; only Str and
// Kw are ever valid Map keys (enforced by the reader and by assoc/get).
func mapKey(v Value) string {
	switch k := v.(type) {
	case Str:
		return "s" + string(k)
	case Kw:
		return "k" + string(k)
	default:
		return "?" + v.String()
	}
}

// Map is an unordered Str/Kw-keyed mapping. Iteration order is
// canonicalized (sorted by the internal key) so printing is stable.
type Map struct {
	entries map[string]mapEntry
}

type mapEntry struct {
	key Value
	val Value
}

// NewMap builds a Map from alternating key/value Values.
func NewMap(kvs ...Value) *Map {
	m := &Map{entries: make(map[string]mapEntry, len(kvs)/2)}
	for i := 0; i+1 < len(kvs); i += 2 {
		m.entries[mapKey(kvs[i])] = mapEntry{key: kvs[i], val: kvs[i+1]}
	}
	return m
}

// Clone returns a shallow copy, used by assoc/dissoc's copy-on-write
// update semantics.
func (m *Map) Clone() *Map {
	clone := &Map{entries: make(map[string]mapEntry, len(m.entries))}
	for k, v := range m.entries {
		clone.entries[k] = v
	}
	return clone
}

// Set writes key/val in place. Only called on a freshly-cloned Map.
func (m *Map) Set(key, val Value) {
	m.entries[mapKey(key)] = mapEntry{key: key, val: val}
}

// Delete removes key in place. Only called on a freshly-cloned Map.
func (m *Map) Delete(key Value) {
	delete(m.entries, mapKey(key))
}

// Get returns the value bound to key and whether it was present.
func (m *Map) Get(key Value) (Value, bool) {
	e, ok := m.entries[mapKey(key)]
	return e.val, ok
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Entries returns key/value pairs in canonical (sorted-key) order.
func (m *Map) Entries() []struct{ Key, Val Value } {
	sortedKeys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)
	out := make([]struct{ Key, Val Value }, 0, len(sortedKeys))
	for _, k := range sortedKeys {
		e := m.entries[k]
		out = append(out, struct{ Key, Val Value }{e.key, e.val})
	}
	return out
}

func (m *Map) Type() string { return "MAP" }
func (m *Map) String() string {
	return m.printString(false)
}
func (m *Map) Readable() string {
	return m.printString(true)
}

func (m *Map) printString(readable bool) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if readable {
			sb.WriteString(e.Key.Readable())
			sb.WriteByte(' ')
			sb.WriteString(e.Val.Readable())
		} else {
			sb.WriteString(e.Key.String())
			sb.WriteByte(' ')
			sb.WriteString(e.Val.String())
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// Atom is a single-slot mutable cell.
type Atom struct {
	Val Value
}

func NewAtom(v Value) *Atom { return &Atom{Val: v} }

func (a *Atom) Type() string     { return "ATOM" }
func (a *Atom) String() string   { return "(atom " + a.Val.String() + ")" }
func (a *Atom) Readable() string { return "(atom " + a.Val.Readable() + ")" }

// Exception wraps an arbitrary value surfaced by throw/try*.
type Exception struct {
	Val Value
}

func NewException(v Value) *Exception { return &Exception{Val: v} }

func (e *Exception) Type() string     { return "EXCEPTION" }
func (e *Exception) String() string   { return e.Val.String() }
func (e *Exception) Readable() string { return e.Val.Readable() }
func (e *Exception) Error() string    { return e.Val.String() }

// Fn is a built-in: a native callable plus a display name.
type Fn struct {
	Name string
	Call func(args []Value) (Value, error)
}

func (f *Fn) Type() string     { return "FN" }
func (f *Fn) String() string   { return f.Name }
func (f *Fn) Readable() string { return f.String() }

// Closure is a user-defined function: its parameter symbols, an
// optional rest-parameter symbol, its body, and the environment it
// closed over. IsMacro is one-way settable false→true by defmacro!.
//
// Env is declared as an interface{} to avoid an import cycle with
// internal/env (closures are created by the evaluator, which already
// imports env; the evaluator type-asserts this back to *env.Env).
type Closure struct {
	Params  []Sym
	Rest    Sym // empty means no variadic tail parameter
	HasRest bool
	Body    Value
	Env     any
	IsMacro bool
}

func (c *Closure) Type() string { return "CLOSURE" }
func (c *Closure) String() string {
	if c.IsMacro {
		return "#<macro>"
	}
	return "#<function>"
}
func (c *Closure) Readable() string { return c.String() }

// IsSeq reports whether v is a List or Vec — the two variants
// `sequential?` accepts and the two variants equality treats as
// interchangeable.
func IsSeq(v Value) bool {
	switch v.(type) {
	case *List, *Vec:
		return true
	}
	return false
}

// SeqItems returns the backing slice for a List or Vec, or nil,false
// for anything else.
func SeqItems(v Value) ([]Value, bool) {
	switch s := v.(type) {
	case *List:
		return s.Items, true
	case *Vec:
		return s.Items, true
	}
	return nil, false
}

// Truthy reports whether v counts as true in a boolean context: only
// Nil and Bool-false are false, everything else — including 0, "",
// and an empty list — is true.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case NilValue:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}

// Equal implements value equality, including the List/Vec
// cross-variant rule: "(= '(1 2) [1 2]) ⇒ true".
func Equal(a, b Value) bool {
	aItems, aIsSeq := SeqItems(a)
	bItems, bIsSeq := SeqItems(b)
	if aIsSeq && bIsSeq {
		if len(aItems) != len(bItems) {
			return false
		}
		for i := range aItems {
			if !Equal(aItems[i], bItems[i]) {
				return false
			}
		}
		return true
	}
	if aIsSeq != bIsSeq {
		return false
	}

	switch x := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Sym:
		y, ok := b.(Sym)
		return ok && x == y
	case Kw:
		y, ok := b.(Kw)
		return ok && x == y
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, e := range x.Entries() {
			yv, ok := y.Get(e.Key)
			if !ok || !Equal(e.Val, yv) {
				return false
			}
		}
		return true
	case *Atom:
		y, ok := b.(*Atom)
		return ok && x == y
	case *Fn:
		y, ok := b.(*Fn)
		return ok && x == y
	case *Closure:
		y, ok := b.(*Closure)
		return ok && x == y
	case *Exception:
		y, ok := b.(*Exception)
		return ok && Equal(x.Val, y.Val)
	default:
		return false
	}
}
