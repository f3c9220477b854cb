// Command scheme is the go-scheme interpreter's command-line front end.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-scheme/cmd/scheme/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
