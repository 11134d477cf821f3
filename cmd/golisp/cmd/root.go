// Package cmd implements the golisp CLI: a cobra command tree with
// root/run/repl subcommands and a persistent --verbose flag, wired to
// a read-eval-print entry point rather than a separate type-check
// pipeline.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose  bool
	hostName string
)

var rootCmd = &cobra.Command{
	Use:   "golisp [file]",
	Short: "golisp is a Lisp interpreter in the Make-A-Lisp tradition",
	Long: `golisp is a self-hosting-style Lisp core: a reader, a tagged value
universe, and a trampoline evaluator with tail-call optimization,
closures, user-defined macros, quasiquote, atoms, and exception
handling.

With no argument, golisp starts an interactive REPL. With a file
argument, golisp evaluates (load-file "<file>") and exits; *ARGV*
is bound to any remaining trailing arguments.`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runRepl(cmd, nil)
		}
		return runScript(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&hostName, "host-name", "golisp", "*host-language* banner token for an embedding REPL front-end")
}
