package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nrperez/golisp/pkg/golisp"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive golisp REPL",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&trace, "trace", false, "print one line per top-level evaluation to stderr")
}

// runRepl prints a one-line banner, then loops prompting "user> ",
// reading one complete top-level form, evaluating, and printing
// readable output or an error line to stderr. EOF ends the REPL.
//
// There is no line-editor front-end (prompt history, syntax
// highlighting); this loop uses a plain bufio.Reader plus
// bracket-depth counting to find one complete form, the minimum
// needed to read one complete top-level form at a time.
func runRepl(cmd *cobra.Command, _ []string) error {
	engine, err := golisp.NewDefault(hostName, nil)
	if err != nil {
		return err
	}

	stdin := bufio.NewReader(os.Stdin)
	fmt.Printf("Mal [%s]\n", hostName)

	for {
		fmt.Print("user> ")
		source, readErr := readForm(stdin)
		if source == "" && readErr == io.EOF {
			return nil
		}
		if readErr != nil && readErr != io.EOF {
			return readErr
		}

		if trace {
			fmt.Fprintf(os.Stderr, "[trace: %s]\n", strings.TrimSpace(source))
		}
		result := engine.Rep(source)
		if !result.Success {
			if trace {
				fmt.Fprintf(os.Stderr, "[trace: => %s]\n", golisp.FormatError(result.Err))
			}
			fmt.Fprintln(os.Stderr, golisp.FormatError(result.Err))
			continue
		}
		if trace {
			fmt.Fprintf(os.Stderr, "[trace: => %s]\n", result.Output)
		}
		if result.Output != "" {
			fmt.Println(result.Output)
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

// readForm accumulates lines from r until parenthesis/bracket/brace
// depth returns to zero outside any string or comment, or until EOF.
func readForm(r *bufio.Reader) (string, error) {
	var buf []byte
	depth := 0
	haveForm := false

	for {
		line, err := r.ReadString('\n')
		buf = append(buf, line...)

		depth += bracketDelta(line)
		if nonBlank(line) {
			haveForm = true
		}

		if err != nil {
			return string(buf), err
		}
		if haveForm && depth <= 0 {
			return string(buf), nil
		}
	}
}

func nonBlank(line string) bool {
	for _, r := range line {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return true
	}
	return false
}

// bracketDelta returns the net change in open-delimiter depth caused
// by line, ignoring delimiters inside string literals or line
// comments.
func bracketDelta(line string) int {
	delta := 0
	inString := false
	escape := false

	for _, r := range line {
		if inString {
			switch {
			case escape:
				escape = false
			case r == '\\':
				escape = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case ';':
			return delta
		case '"':
			inString = true
		case '(', '[', '{':
			delta++
		case ')', ']', '}':
			delta--
		}
	}
	return delta
}
