// Package lox is the embeddable driver spec.md §6 describes: the
// lex→parse→resolve→execute pipeline plus the REPL's expression-first
// read-eval-print loop, wired once here so cmd/lox (and any other
// embedder) never has to touch internal/lexer, internal/parser,
// internal/resolver, or internal/interp directly. Its shape mirrors the
// teacher's cmd/dwscript/cmd package's run/lex/parse plumbing, lifted
// out into a reusable package since spec.md's REPL needs the same
// pipeline invoked once per line rather than once per process.
package lox

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/config"
	"github.com/loxlang/lox/internal/errors"
	"github.com/loxlang/lox/internal/interp"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/natives"
	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/resolver"
	"github.com/loxlang/lox/internal/runtime"
)

// Process exit codes, spec.md §6's "Exit codes" table.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
)

// Options configures a Runner. A zero Options is usable: Out/ErrOut
// default to os.Stdout/os.Stderr and Config defaults to config.Default().
type Options struct {
	Out    io.Writer
	ErrOut io.Writer
	Config config.Config
}

// Runner drives one interpreter session: either a single RunFile/RunSource
// call, or a REPL loop that keeps resolver and globals state alive across
// lines.
type Runner struct {
	out    io.Writer
	errOut io.Writer
	cfg    config.Config
}

// New constructs a Runner, applying opts.Config.NumberFormat to the
// runtime package's global formatter switch.
func New(opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}
	if err := opts.Config.ApplyNumberFormat(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return &Runner{out: out, errOut: errOut, cfg: opts.Config}
}

// newSession builds the globals environment (seeded with natives.Install)
// and a matching Resolver, with DeclareGlobal called for every native
// name in the exact order Install defines them — the invariant that
// keeps the resolver's global slot indices aligned with the evaluator's.
func (r *Runner) newSession(diags *errors.Diagnostics) (*runtime.Environment, *resolver.Resolver) {
	globals := runtime.NewEnvironment(nil)
	natives.Install(globals, natives.Options{TestMode: r.cfg.TestMode})

	res := resolver.New(diags)
	for _, name := range natives.Names() {
		res.DeclareGlobal(name)
	}
	return globals, res
}

// RunFile reads, decodes, and executes the program at path, returning
// the process exit code spec.md §6 assigns.
func (r *Runner) RunFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.errOut, "Error: %v\n", err)
		return ExitUsage
	}
	source, err := lexer.DecodeSource(data)
	if err != nil {
		fmt.Fprintf(r.errOut, "Error: %v\n", err)
		return ExitUsage
	}
	return r.RunSource(source)
}

// RunSource lexes, parses, resolves, and executes source as a complete
// program (not a single REPL line), returning the process exit code.
func (r *Runner) RunSource(source string) int {
	diags := &errors.Diagnostics{}

	lex := lexer.New(source)
	tokens := lex.Scan()
	for _, e := range lex.Errors() {
		diags.Add(errors.Diagnostic{Severity: errors.Lex, Line: e.Line, Message: e.Message})
	}

	p := parser.New(tokens, diags)
	statements := p.Parse()

	globals, res := r.newSession(diags)
	bindings := res.Resolve(statements)

	if diags.HasErrors() {
		fmt.Fprint(r.errOut, diags.Format())
		return ExitDataErr
	}

	it := interp.New(bindings, globals, r.out)
	if err := it.Run(statements); err != nil {
		r.reportRuntimeError(err)
		return ExitSoftware
	}
	return ExitOK
}

func (r *Runner) reportRuntimeError(err error) {
	if re, ok := err.(*interp.RuntimeError); ok {
		fmt.Fprint(r.errOut, re.Diagnostic().Format())
		return
	}
	fmt.Fprintf(r.errOut, "Error: %v\n", err)
}

// REPL implements spec.md §6's interactive loop: read a line, try
// parsing it as a bare expression; on success evaluate it and print the
// result; otherwise reset and parse the line as a statement sequence
// and run that instead. Resolver and globals state persist across
// lines, so a `var` declared on one line is visible on the next;
// diagnostics and runtime errors are reported but never end the
// session — only the input stream running out does.
func (r *Runner) REPL(in io.Reader) {
	diags := &errors.Diagnostics{}
	globals, res := r.newSession(diags)

	scanner := bufio.NewScanner(in)
	fmt.Fprint(r.out, "> ")
	for scanner.Scan() {
		r.evalREPLLine(scanner.Text(), diags, res, globals)
		fmt.Fprint(r.out, "> ")
	}
}

func (r *Runner) evalREPLLine(line string, diags *errors.Diagnostics, res *resolver.Resolver, globals *runtime.Environment) {
	diags.Clear()

	lex := lexer.New(line)
	tokens := lex.Scan()
	for _, e := range lex.Errors() {
		diags.Add(errors.Diagnostic{Severity: errors.Lex, Line: e.Line, Message: e.Message})
	}
	if diags.HasErrors() {
		fmt.Fprint(r.errOut, diags.Format())
		return
	}

	p := parser.New(tokens, diags)
	mark := p.Mark()

	if expr, ok := p.ParseExpression(); ok && !diags.HasErrors() {
		bindings := res.Resolve([]ast.Statement{&ast.ExpressionStmt{Expression: expr}})
		if diags.HasErrors() {
			fmt.Fprint(r.errOut, diags.Format())
			return
		}
		it := interp.New(bindings, globals, r.out)
		value, err := it.EvalExpression(expr)
		if err != nil {
			r.reportRuntimeError(err)
			return
		}
		fmt.Fprintln(r.out, value.String())
		return
	}

	// Not a bare expression (or it had syntax errors): discard that
	// attempt's diagnostics, rewind, and parse the line as statements.
	diags.Clear()
	p.Reset(mark)
	statements := p.Parse()
	if diags.HasErrors() {
		fmt.Fprint(r.errOut, diags.Format())
		return
	}

	bindings := res.Resolve(statements)
	if diags.HasErrors() {
		fmt.Fprint(r.errOut, diags.Format())
		return
	}

	it := interp.New(bindings, globals, r.out)
	if err := it.Run(statements); err != nil {
		r.reportRuntimeError(err)
	}
}
