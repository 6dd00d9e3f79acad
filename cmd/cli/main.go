// Package main is the entry point for the payout-calc CLI.
package main

import (
	"os"

	"payout-calc/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
