package golisp

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func rep(t *testing.T, e *Engine, source string) string {
	t.Helper()
	result := e.Rep(source)
	if !result.Success {
		t.Fatalf("Rep(%q) failed: %v", source, result.Err)
	}
	return result.Output
}

func TestRepArithmeticAndDefinitions(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := rep(t, e, "(+ 1 2)"); got != "3" {
		t.Errorf("(+ 1 2) = %q, want 3", got)
	}
	rep(t, e, "(def! x 10)")
	if got := rep(t, e, "x"); got != "10" {
		t.Errorf("x = %q, want 10", got)
	}
}

func TestRepEmptyInputIsNoOp(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	result := e.Rep("   ; nothing but a comment\n")
	if !result.Success || result.Output != "" {
		t.Errorf("expected a no-op result, got %+v", result)
	}
}

func TestRepReaderErrorSurfacesFormattedDiagnostic(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	result := e.Rep("(1 2")
	if result.Success {
		t.Fatalf("expected an unbalanced-list error")
	}
	if FormatError(result.Err) == "" {
		t.Errorf("FormatError should not be empty")
	}
}

// TestRepPrintableFormsSnapshot snapshots the readable-mode output of a
// representative corpus of forms, covering the printer round-trip.
func TestRepPrintableFormsSnapshot(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	forms := []string{
		`(+ 1 2 3)`,
		`(list 1 2 "three" :four)`,
		`[1 [2 3] {"a" 1}]`,
		`(str "hello, " "world")`,
		`(pr-str "hello, " "world")`,
		`(let* (a 1 b 2) (+ a b))`,
		`(def! square (fn* (x) (* x x)))`,
		`(square 7)`,
		`(try* (throw "boom") (catch* e (str "caught: " e)))`,
	}

	for _, form := range forms {
		snaps.MatchSnapshot(t, form, rep(t, e, form))
	}
}

func TestNewDefaultBindsArgvAndHostLanguage(t *testing.T) {
	e, err := NewDefault("myhost", []string{"a", "b"})
	if err != nil {
		t.Fatalf("NewDefault() error: %v", err)
	}
	if got := rep(t, e, "*host-language*"); got != `"myhost"` {
		t.Errorf("*host-language* = %q, want \"myhost\"", got)
	}
	if got := rep(t, e, "(count *ARGV*)"); got != "2" {
		t.Errorf("(count *ARGV*) = %q, want 2", got)
	}
}
