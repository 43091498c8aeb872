// Package main is the entry point for the rollcall CLI binary.
package main

import (
	"os"

	cli "rollcall/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
