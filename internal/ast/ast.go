// Package ast defines the Lox abstract syntax tree: two closed node
// families, Expression and Statement, each a tagged union implemented as a
// Go interface with concrete struct variants. There is no visitor
// interface here; internal/resolver and internal/interp dispatch on node
// type with a type switch, per the tagged-variant style spec.md §9 asks
// for in place of the original's virtual-dispatch visitor.
package ast

import (
	"github.com/loxlang/lox/internal/token"
)

// Node is the common surface every AST node exposes: enough to render it
// for debugging and to report diagnostics against its source line.
type Node interface {
	String() string
	Line() int
}

// Expression is implemented by every node that produces a Value when
// evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is implemented by every node that performs an effect rather
// than producing a value.
type Statement interface {
	Node
	statementNode()
}

// Literal is a Number, String, Bool, or Nil constant. Value holds the
// decoded Go value (float64, string, bool, or nil) exactly as the lexer
// produced it; the evaluator wraps it into a runtime.Value.
type Literal struct {
	Token token.Token
	Value any
}

func (l *Literal) expressionNode() {}
func (l *Literal) Line() int       { return l.Token.Line }
func (l *Literal) String() string  { return l.Token.Lexeme }

// Unary is a prefix `!` or `-` expression.
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u *Unary) expressionNode() {}
func (u *Unary) Line() int       { return u.Operator.Line }
func (u *Unary) String() string  { return parenthesize(u.Operator.Lexeme, u.Right) }

// Binary is an infix arithmetic, comparison, equality, or comma
// expression. The comma operator (spec.md's `comma` production) is
// represented as an ordinary Binary with Operator.Kind == token.COMMA
// rather than a dedicated node, since it behaves exactly like `+`/`*` at
// the AST level: evaluate both sides in order, keep the left's dispatch
// rule (sequencing instead of arithmetic).
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) expressionNode() {}
func (b *Binary) Line() int       { return b.Operator.Line }
func (b *Binary) String() string  { return parenthesize(b.Operator.Lexeme, b.Left, b.Right) }

// Grouping is a parenthesized expression.
type Grouping struct {
	LParen     token.Token
	Expression Expression
}

func (g *Grouping) expressionNode() {}
func (g *Grouping) Line() int       { return g.LParen.Line }
func (g *Grouping) String() string  { return parenthesize("group", g.Expression) }

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond     Expression
	Question token.Token
	Then     Expression
	Else     Expression
}

func (t *Ternary) expressionNode() {}
func (t *Ternary) Line() int       { return t.Question.Line }
func (t *Ternary) String() string  { return parenthesize("?:", t.Cond, t.Then, t.Else) }

// Logical is `and`/`or`, kept distinct from Binary because it
// short-circuits instead of evaluating both operands unconditionally.
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l *Logical) expressionNode() {}
func (l *Logical) Line() int       { return l.Operator.Line }
func (l *Logical) String() string  { return parenthesize(l.Operator.Lexeme, l.Left, l.Right) }

// VariableRead reads the value bound to Name. The resolver records a
// (slot, depth) pair keyed by the address of this node; the evaluator
// looks that pair up rather than hashing Name at run time.
type VariableRead struct {
	Name token.Token
}

func (v *VariableRead) expressionNode() {}
func (v *VariableRead) Line() int       { return v.Name.Line }
func (v *VariableRead) String() string  { return v.Name.Lexeme }

// Assign writes Value to the variable named Name and yields Value.
type Assign struct {
	Name  token.Token
	Value Expression
}

func (a *Assign) expressionNode() {}
func (a *Assign) Line() int       { return a.Name.Line }
func (a *Assign) String() string  { return parenthesize("= "+a.Name.Lexeme, a.Value) }

// Call invokes Callee with Args. Paren is the closing `)`, the token
// runtime arity/type errors are reported against.
type Call struct {
	Callee Expression
	Paren  token.Token
	Args   []Expression
}

func (c *Call) expressionNode() {}
func (c *Call) Line() int       { return c.Paren.Line }
func (c *Call) String() string  { return parenthesize("call", append([]Expression{c.Callee}, c.Args...)...) }

// FunctionLiteral is an anonymous `fun (params) { ... }` expression. It
// resolves and evaluates exactly like FunctionDecl's body minus the
// declare/define step for a name.
type FunctionLiteral struct {
	Keyword token.Token
	Params  []token.Token
	Body    []Statement
}

func (f *FunctionLiteral) expressionNode() {}
func (f *FunctionLiteral) Line() int       { return f.Keyword.Line }
func (f *FunctionLiteral) String() string  { return "<fn>" }

// PropertyGet reads Name off the instance produced by Object.
type PropertyGet struct {
	Object Expression
	Name   token.Token
}

func (p *PropertyGet) expressionNode() {}
func (p *PropertyGet) Line() int       { return p.Name.Line }
func (p *PropertyGet) String() string  { return parenthesize("."+p.Name.Lexeme, p.Object) }

// PropertySet writes Value to Name on the instance produced by Object.
type PropertySet struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

func (p *PropertySet) expressionNode() {}
func (p *PropertySet) Line() int       { return p.Name.Line }
func (p *PropertySet) String() string  { return parenthesize("."+p.Name.Lexeme+"=", p.Object, p.Value) }

// This reads the bound instance in a method body.
type This struct {
	Keyword token.Token
}

func (t *This) expressionNode() {}
func (t *This) Line() int       { return t.Keyword.Line }
func (t *This) String() string  { return "this" }

// Super reads Method off the enclosing class's superclass, bound to the
// current `this`.
type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (s *Super) expressionNode() {}
func (s *Super) Line() int       { return s.Keyword.Line }
func (s *Super) String() string  { return "super." + s.Method.Lexeme }
