// main package for the driftwood command-line tool
// Package main is the entry point for the Driftwood CLI.
package main

import "driftwood.dev/pkg/driftwood/cmd"

func main() {
	cmd.Execute()
}
