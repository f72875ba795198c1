// Package main is the etlgraph command-line entry point.
package main

import (
	"os"

	"github.com/etlgraph-labs/etlgraph/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
