package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxlang/lox/internal/config"
	"github.com/loxlang/lox/pkg/lox"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	numberFormatFlag string
	testModeFlag     bool
	configPathFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "lox [script]",
	Short: "Lox language interpreter",
	Long: `lox is a tree-walking interpreter for the Lox language.

With no arguments it starts a REPL: each line is tried as an expression
first (printing its value), and if that fails it is parsed and run as a
statement sequence instead.

With one argument it executes that file. More than one positional
argument prints usage instead of running anything.`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&numberFormatFlag, "number-format", "", "override number stringification (fixed6|shortest)")
	rootCmd.PersistentFlags().BoolVar(&testModeFlag, "test-mode", false, "pin clock() to 0 for deterministic output")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to a .lox.yaml configuration file (default: ./.lox.yaml if present)")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		_ = cmd.Usage()
		os.Exit(lox.ExitUsage)
	}

	runner := lox.New(lox.Options{Config: loadConfig()})

	if len(args) == 1 {
		os.Exit(runner.RunFile(args[0]))
	}

	runner.REPL(os.Stdin)
	return nil
}

func loadConfig() config.Config {
	path := configPathFlag
	if path == "" {
		path = config.FindProjectFile(".")
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if numberFormatFlag != "" {
		cfg.NumberFormat = numberFormatFlag
	}
	if testModeFlag {
		cfg.TestMode = true
	}
	return cfg
}

// readSource reads program text from the single positional file
// argument, falling back to stdin when none is given. Shared by the
// lex and parse debugging subcommands.
func readSource(args []string) (source, filename string, err error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), "<stdin>", nil
}
