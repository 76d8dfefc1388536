// Package main provides the dbprime CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/dbprime/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
