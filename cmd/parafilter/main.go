// Command parafilter filters records of parallel arrays with CUE-configured
// predicates.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/parafilter/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
