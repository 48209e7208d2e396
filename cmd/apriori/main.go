// Command apriori mines frequent itemsets and association rules.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/apriori/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
