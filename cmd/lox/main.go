// Command lox is the Lox language interpreter CLI: a file runner, a
// REPL, and a pair of lex/parse debugging subcommands, following the
// teacher's cmd/dwscript layout (a thin main.go delegating to a cmd
// package built on cobra).
package main

import (
	"fmt"
	"os"

	"github.com/loxlang/lox/cmd/lox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
