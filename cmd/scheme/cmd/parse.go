package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Read a Scheme file or expression and print its parsed data",
	Long: `Read (parse) Scheme source into the data it denotes and print each
top-level datum using its external representation.

Examples:
  scheme parse program.scm
  scheme parse -e "(define (f x) (* x x))"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	var src string

	switch {
	case parseEvalExpr != "":
		src = parseEvalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		src = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	r := reader.New(lexer.New(src))
	n := 0
	for {
		datum, ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		n++
		fmt.Printf("%d: %s\n", n, datum.String())
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%d datum/data read\n", n)
	}
	return nil
}
