// Command golisp is the golisp CLI entry point: a reader, a tagged
// value universe, and a trampoline evaluator exposed as a REPL and a
// script runner.
package main

import (
	"fmt"
	"os"

	"github.com/nrperez/golisp/cmd/golisp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
