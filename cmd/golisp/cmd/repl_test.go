package cmd

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestBracketDelta(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delta int
	}{
		{"balanced", "(+ 1 2)", 0},
		{"open paren", "(+ 1 2", 1},
		{"mixed delimiters", "([{", 3},
		{"closing only", "))", -2},
		{"paren inside string ignored", `"(not open"`, 0},
		{"comment ignored", "(+ 1 2) ; (", 0},
		{"escaped quote inside string", `"a\"(b"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bracketDelta(tt.line); got != tt.delta {
				t.Errorf("bracketDelta(%q) = %d, want %d", tt.line, got, tt.delta)
			}
		})
	}
}

func TestReadFormAccumulatesUntilBalanced(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("(+ 1\n   2)\n(+ 3 4)\n"))

	first, err := readForm(r)
	if err != nil && err != io.EOF {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(first) != "(+ 1\n   2)" {
		t.Errorf("first form = %q", first)
	}

	second, err := readForm(r)
	if err != nil && err != io.EOF {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(second) != "(+ 3 4)" {
		t.Errorf("second form = %q", second)
	}
}

func TestReadFormReturnsEOFOnEmptyInput(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(""))
	form, err := readForm(r)
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if form != "" {
		t.Errorf("expected empty form, got %q", form)
	}
}
