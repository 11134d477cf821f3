package builtins

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/lerrors"
	"github.com/nrperez/golisp/internal/reader"
	"github.com/nrperez/golisp/internal/types"
)

// registerIO wires the printing and file/line I/O builtins;
// readline/slurp block on I/O.
func (r *Registrar) registerIO(e *env.Env) {
	def(e, "pr-str", func(args []types.Value) (types.Value, error) {
		return types.Str(joinPrint(args, true, " ")), nil
	})
	def(e, "str", func(args []types.Value) (types.Value, error) {
		return types.Str(joinPrint(args, false, "")), nil
	})
	def(e, "prn", func(args []types.Value) (types.Value, error) {
		fmt.Fprintln(r.Stdout, joinPrint(args, true, " "))
		return types.Nil, nil
	})
	def(e, "println", func(args []types.Value) (types.Value, error) {
		fmt.Fprintln(r.Stdout, joinPrint(args, false, " "))
		return types.Nil, nil
	})

	def(e, "read-string", func(args []types.Value) (types.Value, error) {
		s, err := oneStr(args, "read-string")
		if err != nil {
			return nil, err
		}
		v, err := reader.NewReader(s).ReadForm()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return types.Nil, nil
		}
		return v, nil
	})

	def(e, "slurp", func(args []types.Value) (types.Value, error) {
		path, err := oneStr(args, "slurp")
		if err != nil {
			return nil, err
		}
		content, ioErr := os.ReadFile(path)
		if ioErr != nil {
			return nil, lerrors.NewRuntimeError(lerrors.IOError, "slurp: %s", ioErr)
		}
		return types.Str(content), nil
	})

	def(e, "readline", func(args []types.Value) (types.Value, error) {
		prompt, err := oneStr(args, "readline")
		if err != nil {
			return nil, err
		}
		fmt.Fprint(r.Stdout, prompt)
		line, ioErr := r.Stdin.ReadString('\n')
		if ioErr != nil && ioErr != io.EOF {
			return nil, lerrors.NewRuntimeError(lerrors.IOError, "readline: %s", ioErr)
		}
		if ioErr == io.EOF && line == "" {
			return types.Nil, nil
		}
		return types.Str(strings.TrimRight(line, "\r\n")), nil
	})
}

func joinPrint(args []types.Value, readable bool, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if readable {
			parts[i] = a.Readable()
		} else {
			parts[i] = a.String()
		}
	}
	return strings.Join(parts, sep)
}
