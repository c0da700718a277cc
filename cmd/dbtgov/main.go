// Package main is the dbtgov CLI entry point.
package main

import (
	"os"

	"github.com/datagov-labs/dbtgov/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
