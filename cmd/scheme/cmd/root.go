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

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scheme",
	Short: "A Scheme interpreter",
	Long: `scheme is a tree-walking interpreter for a substantial subset of
Scheme: the reader, macro expander, and evaluator are exposed both as a
REPL/script runner here and as an embeddable Go package.

Run a file, evaluate an inline expression, or start a REPL with no
arguments at all.`,
	Version: Version,
	Args:    cobra.NoArgs,
	RunE:    runRepl,
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
}
