package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/pkg/token"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr string
	showPos     bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Scheme file or expression",
	Long: `Tokenize (lex) a Scheme program and print the resulting tokens.

Useful for debugging the lexer and understanding how source text is split
into atoms, strings, parens, and quote sugar.

Examples:
  scheme lex program.scm
  scheme lex -e "(+ 1 2)"
  scheme lex --show-pos program.scm`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
}

func lexScript(_ *cobra.Command, args []string) error {
	var src string

	switch {
	case lexEvalExpr != "":
		src = lexEvalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		src = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	l := lexer.New(src)
	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Type == token.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("found %d lexer error(s)", len(errs))
	}
	return nil
}

func printToken(tok token.Token) {
	output := fmt.Sprintf("[%-16s] %q", tok.Type, tok.Literal)
	if showPos {
		output += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(output)
}
