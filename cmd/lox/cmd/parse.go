package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/errors"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Lox source and print the resulting AST",
	Long: `Parse a Lox program and print its AST in S-expression form.

Useful for debugging the parser. Reads from the given file, or from
stdin if no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	source, _, err := readSource(args)
	if err != nil {
		return err
	}
	decoded, err := lexer.DecodeSource([]byte(source))
	if err != nil {
		return err
	}

	diags := &errors.Diagnostics{}

	l := lexer.New(decoded)
	tokens := l.Scan()
	for _, e := range l.Errors() {
		diags.Add(errors.Diagnostic{Severity: errors.Lex, Line: e.Line, Message: e.Message})
	}

	p := parser.New(tokens, diags)
	statements := p.Parse()

	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diags.Format())
		return fmt.Errorf("parsing failed")
	}

	for _, stmt := range statements {
		fmt.Println(ast.Print(stmt))
	}
	return nil
}
