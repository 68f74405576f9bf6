// Package errors formats the diagnostics produced by the lexer, parser,
// resolver, and evaluator into the exact wire strings the CLI and REPL
// write to the error sink. It plays the same role as the teacher's
// internal/errors package (a CompilerError type plus batch Format
// helpers) but renders Lox's simpler one-line formats instead of the
// teacher's source-context/caret rendering, since Lox's diagnostic
// surface (spec's §6 "Diagnostic format") carries no column information.
package errors

import (
	"fmt"
	"strings"
)

// Severity classifies which pipeline stage raised a Diagnostic.
type Severity int

const (
	// Lex marks an error raised while scanning source text.
	Lex Severity = iota
	// Parse marks an error raised while building the AST.
	Parse
	// Resolve marks an error raised during static binding resolution.
	Resolve
	// Runtime marks an error raised while evaluating the program.
	Runtime
)

func (s Severity) String() string {
	switch s {
	case Lex:
		return "Lex"
	case Parse:
		return "Parse"
	case Resolve:
		return "Resolve"
	case Runtime:
		return "Runtime"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single reported problem: a message, the source line it
// occurred on, a severity, and — for Lex/Parse/Resolve diagnostics — a
// Where clause describing the offending token ("at end", "at '<lexeme>'",
// or empty for a bare position).
type Diagnostic struct {
	Severity Severity
	Line     int
	Where    string
	Message  string
}

// Format renders a Diagnostic in the wire format spec.md §6 requires:
// Lex/Parse/Resolve diagnostics render as
// "[line N] Error <where>: <message>\n"; Runtime diagnostics render as
// "[<message> line N]\n".
func (d Diagnostic) Format() string {
	if d.Severity == Runtime {
		return fmt.Sprintf("[%s line %d]\n", d.Message, d.Line)
	}
	if d.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s\n", d.Line, d.Message)
	}
	return fmt.Sprintf("[line %d] Error %s: %s\n", d.Line, d.Where, d.Message)
}

// AtEnd builds the Where clause for a diagnostic anchored on EOF.
func AtEnd() string { return "at end" }

// AtLexeme builds the Where clause for a diagnostic anchored on a
// specific token's lexeme.
func AtLexeme(lexeme string) string { return "at '" + lexeme + "'" }

// Diagnostics collects Lex/Parse/Resolve diagnostics across a full pass
// so the lexer, parser, and resolver can each report as many problems as
// possible in one run instead of aborting at the first, matching
// spec.md §7's "collected, not raised" propagation rule. Runtime errors
// do not go through this collector: they abort the enclosing interpret
// call immediately (see internal/interp).
type Diagnostics struct {
	entries []Diagnostic
}

// Add appends a Diagnostic to the collector.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.entries = append(d.entries, diag)
}

// HasErrors reports whether any diagnostic has been collected. The
// driver refuses to execute a program when this is true.
func (d *Diagnostics) HasErrors() bool {
	return len(d.entries) > 0
}

// All returns the collected diagnostics in report order.
func (d *Diagnostics) All() []Diagnostic {
	return d.entries
}

// Clear discards every collected diagnostic. The REPL calls this
// between lines, since each line is its own compilation unit for
// diagnostic-reporting purposes even though the resolver's global slot
// table persists across the whole session.
func (d *Diagnostics) Clear() {
	d.entries = nil
}

// Format renders every collected diagnostic, in report order,
// concatenated with no separator (each Diagnostic.Format already ends in
// its own newline).
func (d *Diagnostics) Format() string {
	var b strings.Builder
	for _, diag := range d.entries {
		b.WriteString(diag.Format())
	}
	return b.String()
}
