package builtins

import (
	"github.com/nrperez/golisp/internal/env"
	"github.com/nrperez/golisp/internal/eval"
	"github.com/nrperez/golisp/internal/reader"
	"github.com/nrperez/golisp/internal/types"
)

// bootstrapSource is the fixed program evaluated in the global
// environment immediately after Register: without it the standard
// test corpus cannot run.
const bootstrapSource = `
(def! not (fn* (a) (if a false true)))
(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) "\nnil)")))))
(defmacro! cond
  (fn* (& xs)
    (if (> (count xs) 0)
      (list 'if (first xs)
        (if (> (count xs) 1)
          (nth xs 1)
          (throw "odd number of forms to cond"))
        (cons 'cond (rest (rest xs))))
      nil)))
`

// Bootstrap installs *ARGV*/*host-language* and evaluates
// bootstrapSource in e (which must be the global frame).
func Bootstrap(e *env.Env, argv []string, hostLanguage string) error {
	argvItems := make([]types.Value, len(argv))
	for i, a := range argv {
		argvItems[i] = types.Str(a)
	}
	e.Define("*ARGV*", types.NewList(argvItems...))
	e.Define("*host-language*", types.Str(hostLanguage))

	r := reader.NewReader(bootstrapSource)
	for {
		form, err := r.ReadForm()
		if err != nil {
			return err
		}
		if form == nil {
			return nil
		}
		if _, err := eval.Eval(form, e); err != nil {
			return err
		}
	}
}
