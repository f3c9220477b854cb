package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	schemeerrors "github.com/cwbudde/go-scheme/internal/errors"
	"github.com/cwbudde/go-scheme/internal/expander"
	"github.com/cwbudde/go-scheme/internal/interp"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
	"github.com/cwbudde/go-scheme/pkg/scheme"
	"github.com/spf13/cobra"
)

// runRepl starts an interactive read-eval-print loop against stdin/stdout.
//
// Unlike scheme run, which evaluates a whole source string in one pass, the
// REPL has to cope with a datum that spans more than one line of input and
// must print every top-level result as it's produced, not just the source's
// last one. It keeps a pending source buffer, growing it one physical line
// at a time: a read that fails only because the lexer ran dry mid-datum
// (reader.AtEOF) is treated as "needs another line" rather than an error,
// and the prompt is withheld until that datum completes. A SchemeError is
// reported and the loop continues rather than exiting, so one bad form
// doesn't kill the session. SIGINT is caught and reported on stderr
// instead of terminating the process, so the global environment survives
// it; it does not interrupt a form that is being evaluated, and the loop
// returns to the prompt only once that form finishes.
func runRepl(_ *cobra.Command, _ []string) error {
	in, err := scheme.New()
	if err != nil {
		return err
	}
	global := in.Global()
	e := expander.New()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT)
	defer signal.Stop(sigint)
	go func() {
		for range sigint {
			fmt.Fprintln(os.Stderr, "\ninterrupted")
		}
	}()

	stdin := bufio.NewReader(os.Stdin)
	fmt.Fprintln(os.Stderr, "go-scheme REPL. Press Ctrl-D to exit.")

	var pending string
	for {
		if pending == "" {
			fmt.Fprint(os.Stderr, "> ")
		}
		line, readErr := stdin.ReadString('\n')
		if line == "" && readErr != nil {
			fmt.Fprintln(os.Stderr)
			return nil
		}
		pending += line

		lex := lexer.New(pending)
		r := reader.New(lex)
		consumed := 0
		incomplete := false
		for {
			datum, ok, rerr := r.Read()
			if rerr != nil {
				if r.AtEOF() {
					incomplete = true
				} else {
					printReplError(os.Stderr, rerr)
				}
				break
			}
			if !ok {
				break
			}
			consumed = r.Offset()

			expanded, eerr := e.Expand(datum, true)
			if eerr != nil {
				printReplError(os.Stderr, eerr)
				continue
			}
			result, everr := interp.Eval(expanded, global)
			if everr != nil {
				printReplError(os.Stderr, everr)
				continue
			}
			fmt.Fprintln(os.Stdout, result.String())

			// The reader already holds one token of lookahead, so the
			// lexer is past the start of any further datum on this line;
			// stop only once that lookahead is the end of the buffer.
			if r.AtEOF() {
				break
			}
		}

		if incomplete {
			pending = pending[consumed:]
		} else {
			pending = ""
		}

		if readErr != nil {
			fmt.Fprintln(os.Stderr)
			return nil
		}
	}
}

func printReplError(w io.Writer, err error) {
	if se, ok := err.(*schemeerrors.SchemeError); ok {
		fmt.Fprintln(w, se.Error())
		return
	}
	fmt.Fprintln(w, err)
}
