package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxlang/lox/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize Lox source and print the resulting tokens",
	Long: `Tokenize a Lox program and print one token per line.

Useful for debugging the lexer. Reads from the given file, or from
stdin if no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(_ *cobra.Command, args []string) error {
	source, _, err := readSource(args)
	if err != nil {
		return err
	}
	decoded, err := lexer.DecodeSource([]byte(source))
	if err != nil {
		return err
	}

	l := lexer.New(decoded)
	for _, tok := range l.Scan() {
		fmt.Println(tok.String())
	}

	lexErrors := l.Errors()
	for _, e := range lexErrors {
		fmt.Fprintf(os.Stderr, "[line %d] Error: %s\n", e.Line, e.Message)
	}
	if len(lexErrors) > 0 {
		return fmt.Errorf("lexing failed with %d error(s)", len(lexErrors))
	}
	return nil
}
