package cmd

import (
	"fmt"
	"os"

	"github.com/nrperez/golisp/pkg/golisp"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a golisp file or inline expression",
	Long: `Execute a golisp program from a file or inline expression.

Examples:
  # Run a script file
  golisp run script.lisp

  # Evaluate an inline expression
  golisp run -e "(+ 1 2)"

  # Run with an execution trace
  golisp run --trace script.lisp`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalExpr != "" {
			return evalInline(evalExpr)
		}
		return runScript(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print one line per top-level evaluation to stderr")
}

// runScript treats the first positional argument as a filename, binds
// *ARGV* to the rest, and evaluates (load-file "<filename>").
func runScript(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}
	filename := args[0]
	engine, err := golisp.NewDefault(hostName, args[1:])
	if err != nil {
		return err
	}

	if trace {
		fmt.Fprintf(os.Stderr, "[trace: loading %s]\n", filename)
	}

	result := engine.Rep(fmt.Sprintf("(load-file %q)", filename))
	if !result.Success {
		if trace {
			fmt.Fprintf(os.Stderr, "[trace: => %s]\n", golisp.FormatError(result.Err))
		}
		fmt.Fprintln(os.Stderr, golisp.FormatError(result.Err))
		return fmt.Errorf("execution failed")
	}
	if trace {
		fmt.Fprintf(os.Stderr, "[trace: => %s]\n", result.Output)
	}
	return nil
}

// evalInline implements the -e flag: evaluate a single inline
// expression instead of reading from a file.
func evalInline(source string) error {
	engine, err := golisp.NewDefault(hostName, nil)
	if err != nil {
		return err
	}
	if trace {
		fmt.Fprintf(os.Stderr, "[trace: %s]\n", source)
	}
	result := engine.Rep(source)
	if !result.Success {
		if trace {
			fmt.Fprintf(os.Stderr, "[trace: => %s]\n", golisp.FormatError(result.Err))
		}
		fmt.Fprintln(os.Stderr, golisp.FormatError(result.Err))
		return fmt.Errorf("execution failed")
	}
	if trace {
		fmt.Fprintf(os.Stderr, "[trace: => %s]\n", result.Output)
	}
	if result.Output != "" {
		fmt.Println(result.Output)
	}
	return nil
}
