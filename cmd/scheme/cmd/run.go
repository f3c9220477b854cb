package cmd

import (
	"fmt"
	"os"

	schemeerrors "github.com/cwbudde/go-scheme/internal/errors"
	"github.com/cwbudde/go-scheme/internal/expander"
	"github.com/cwbudde/go-scheme/internal/interp"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
	"github.com/cwbudde/go-scheme/pkg/scheme"
	"github.com/spf13/cobra"
)

var evalExpr string

var (
	dumpAST bool
	trace   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Scheme file or expression",
	Long: `Execute a Scheme program from a file or inline expression.

Examples:
  # Run a script file
  scheme run program.scm

  # Evaluate an inline expression
  scheme run -e "(display (+ 1 2)) (newline)"

  # Dump the expanded core form of each top-level datum before running it
  scheme run --dump-ast program.scm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the expanded core form of each top-level datum")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print the value of each top-level evaluation")
}

func runScript(_ *cobra.Command, args []string) error {
	var src, filename string

	switch {
	case evalExpr != "":
		src = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		src = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Running %s (%d bytes)\n", filename, len(src))
	}

	if err := evalTopLevel(src, filename); err != nil {
		if se, ok := err.(*schemeerrors.SchemeError); ok {
			fmt.Fprintln(os.Stderr, se.FormatWithSource(src, filename))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("execution failed")
	}

	return nil
}

// evalTopLevel evaluates src form by form, rather than delegating to
// Interpreter.EvalString directly, so --dump-ast and --trace can observe
// each top-level datum individually.
func evalTopLevel(src, _ string) error {
	in, err := scheme.New()
	if err != nil {
		return err
	}
	global := in.Global()

	r := reader.New(lexer.New(src))
	e := expander.New()
	for {
		datum, ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		expanded, err := e.Expand(datum, true)
		if err != nil {
			return err
		}
		if dumpAST {
			fmt.Fprintln(os.Stderr, expanded.String())
		}
		result, err := interp.Eval(expanded, global)
		if err != nil {
			return err
		}
		if trace {
			fmt.Fprintln(os.Stderr, result.String())
		}
	}
}
