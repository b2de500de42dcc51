// Command minic-analyzer runs the static analyzer over a single MiniC
// source file.
package main

import (
	"os"

	"github.com/minic-lang/minic-analyzer/cliapp"
)

func main() {
	os.Exit(cliapp.Run(os.Stdin, os.Stdout, os.Stderr, os.Args))
}
