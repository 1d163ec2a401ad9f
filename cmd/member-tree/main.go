// Package main provides the CLI entrypoint for member-tree.
//
// member-tree inspects the structure of a live Go object graph:
//   - Builds a tree of fields, getter-backed properties and methods
//   - Finds members by name, path or annotation
//   - Writes fields and properties through the tree
package main

import (
	"os"

	"member-tree/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
