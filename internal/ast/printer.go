package ast

import "strings"

// parenthesize renders an S-expression-style debug form: (name child...).
// This is the same flattening archevan-glox's ASTPrinter uses, adapted
// from its visitor dispatch to a plain String() method per node since
// this AST has no visitor interface.
func parenthesize(name string, exprs ...Expression) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		if e == nil {
			b.WriteString("nil")
			continue
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Print renders any Expression or Statement in the same parenthesized
// debug form, for the `lox parse` CLI subcommand.
func Print(n Node) string {
	return n.String()
}
