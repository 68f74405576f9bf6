// Package resolver implements the static binding pass (spec.md C4): a
// single walk over the AST that assigns every variable-bearing
// expression a (slot, depth) pair, so the evaluator never has to look a
// name up by hashing it at run time. The algorithm is a direct port of
// original_source/src/resolver.cpp's scope-stack walk — four parallel
// per-scope structures (slots, defined-flags, usage tracking, and a slot
// counter) plus the class/function state machines — rather than the teacher's semantic
// analyzer, since DWScript resolves names against a compile-time symbol
// table shaped by static typing, a different problem than Lox's
// depth-addressed lexical closures.
package resolver

import (
	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/errors"
	"github.com/loxlang/lox/internal/token"
)

// Global is the sentinel depth recorded for a binding resolved against
// the flat global table rather than a lexical scope.
const Global = -1

// Binding is one entry of the resolver's output: where the evaluator
// should read or write the value a given expression node names.
type Binding struct {
	Slot  int
	Depth int
}

// Bindings is the resolved binding side-table spec.md §3 describes: a
// map from expression node identity to binding coordinates. Expression
// nodes are always used as pointers, so the Go map key is the node's
// identity exactly as spec.md requires.
type Bindings struct {
	entries map[ast.Expression]Binding
}

// Lookup returns the Binding recorded for expr, if any. A miss for a
// VariableRead/Assign/This/Super node that survived resolution with no
// reported errors is a bug in the resolver or evaluator, not a
// user-facing condition (spec.md §4.6: "Missing entry... is a bug").
func (b *Bindings) Lookup(expr ast.Expression) (Binding, bool) {
	binding, ok := b.entries[expr]
	return binding, ok
}

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
)

// scope holds the four parallel per-scope structures spec.md §4.3 and
// §4.7 describe: name->slot (populated on define), name->defined? (used
// to detect self-referential initializers, populated on declare and
// define), and a used set (for the unused-local diagnostic). The slot
// index counter is scoped per-scope too, since each lexical block gets
// its own small Environment.
type scope struct {
	slots      map[string]int
	defined    map[string]bool
	used       map[string]bool
	nextSlot   int
	declTokens map[string]token.Token // for UNUSED_LOCAL position reporting
}

func newScope() *scope {
	return &scope{
		slots:      make(map[string]int),
		defined:    make(map[string]bool),
		used:       make(map[string]bool),
		declTokens: make(map[string]token.Token),
	}
}

// Resolver performs the static resolution pass over a parsed program.
type Resolver struct {
	diags *errors.Diagnostics

	scopes []*scope

	globals     map[string]int
	globalIndex int

	currentFunction functionType
	currentClass    classType

	bindings map[ast.Expression]Binding
}

// New constructs a Resolver that reports problems into diags.
func New(diags *errors.Diagnostics) *Resolver {
	return &Resolver{
		diags:    diags,
		globals:  make(map[string]int),
		bindings: make(map[ast.Expression]Binding),
	}
}

// DeclareGlobal pre-registers a global name (a native function, for
// instance) before Resolve walks the program, exactly as the original
// resolver's constructor calls defineGlobal for "clock" before
// resolving any user code. It returns the slot assigned.
func (r *Resolver) DeclareGlobal(name string) int {
	slot := r.globalIndex
	r.globalIndex++
	r.globals[name] = slot
	return slot
}

// Resolve walks the top-level statement list and returns the completed
// binding side-table. Call DeclareGlobal for every native before this.
func (r *Resolver) Resolve(statements []ast.Statement) *Bindings {
	r.resolveStatements(statements)
	return &Bindings{entries: r.bindings}
}

func (r *Resolver) resolveStatements(statements []ast.Statement) {
	for _, stmt := range statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpression(s.Expression)
	case *ast.PrintStmt:
		r.resolveExpression(s.Expression)
	case *ast.VarDecl:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *ast.Block:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.If:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.While:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case *ast.Break:
		// Loop-depth validation is a parser-time responsibility
		// (spec.md §4.3 "Loop tracking"); nothing to resolve here.
	case *ast.FunctionDecl:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, functionFunction)
	case *ast.Return:
		if r.currentFunction == functionNone {
			r.errorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil && r.currentFunction == functionInitializer {
			r.errorAt(s.Keyword, "Can't return from initializer.")
		}
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}
	case *ast.ClassDecl:
		r.resolveClass(s)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Literal:
		// Nothing to resolve.
	case *ast.Unary:
		r.resolveExpression(e.Right)
	case *ast.Binary:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.Grouping:
		r.resolveExpression(e.Expression)
	case *ast.Ternary:
		r.resolveExpression(e.Cond)
		r.resolveExpression(e.Then)
		r.resolveExpression(e.Else)
	case *ast.Logical:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.VariableRead:
		r.resolveVariableRead(e)
	case *ast.Assign:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Call:
		for _, arg := range e.Args {
			r.resolveExpression(arg)
		}
		r.resolveExpression(e.Callee)
	case *ast.FunctionLiteral:
		r.resolveFunction(e.Params, e.Body, functionFunction)
	case *ast.PropertyGet:
		r.resolveExpression(e.Object)
	case *ast.PropertySet:
		r.resolveExpression(e.Object)
		r.resolveExpression(e.Value)
	case *ast.This:
		if r.currentClass == classNone {
			r.errorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Super:
		r.resolveLocal(e, e.Keyword)
	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) resolveVariableRead(v *ast.VariableRead) {
	if len(r.scopes) > 0 {
		top := r.scopes[len(r.scopes)-1]
		if defined, ok := top.defined[v.Name.Lexeme]; ok && !defined {
			r.errorAt(v.Name, "Can't read local variable in its own initializer")
		}
	}

	r.resolveLocal(v, v.Name)
}

func (r *Resolver) resolveFunction(params []token.Token, body []ast.Statement, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(body)
	r.endScope()

	r.currentFunction = enclosing
}

func (r *Resolver) resolveClass(c *ast.ClassDecl) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil && c.Superclass.Name.Lexeme == c.Name.Lexeme {
		r.errorAt(c.Superclass.Name, "A class can't inherit from itself.")
	}
	if c.Superclass != nil {
		r.resolveExpression(c.Superclass)
	}

	if c.Superclass != nil {
		r.beginScope()
		top := r.scopes[len(r.scopes)-1]
		top.defined["super"] = true
		top.slots["super"] = top.nextSlot
		top.nextSlot++
	}

	r.beginScope()
	top := r.scopes[len(r.scopes)-1]
	top.defined["this"] = true
	top.slots["this"] = top.nextSlot
	top.nextSlot++

	for _, method := range c.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method.Params, method.Body, kind)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, newScope())
}

func (r *Resolver) endScope() {
	top := r.scopes[len(r.scopes)-1]
	for name, tok := range top.declTokens {
		if name == "this" || name == "super" {
			continue
		}
		if !top.used[name] {
			r.errorAt(tok, "Local variable not used.")
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top.defined[name.Lexeme]; ok {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	top.defined[name.Lexeme] = false
	top.declTokens[name.Lexeme] = name
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		r.defineGlobal(name)
		return
	}
	top := r.scopes[len(r.scopes)-1]
	top.defined[name.Lexeme] = true
	top.slots[name.Lexeme] = top.nextSlot
	top.nextSlot++
}

func (r *Resolver) defineGlobal(name token.Token) {
	slot := r.globalIndex
	r.globalIndex++
	r.globals[name.Lexeme] = slot
}

func (r *Resolver) resolveLocal(expr ast.Expression, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if slot, ok := r.scopes[i].slots[name.Lexeme]; ok {
			r.scopes[i].used[name.Lexeme] = true
			r.bindings[expr] = Binding{Slot: slot, Depth: len(r.scopes) - 1 - i}
			return
		}
	}

	slot, ok := r.globals[name.Lexeme]
	if !ok {
		r.errorAt(name, "Undefined variable.")
	}
	r.bindings[expr] = Binding{Slot: slot, Depth: Global}
}

func (r *Resolver) errorAt(tok token.Token, message string) {
	where := errors.AtLexeme(tok.Lexeme)
	if tok.Kind == token.EOF {
		where = errors.AtEnd()
	}
	r.diags.Add(errors.Diagnostic{
		Severity: errors.Resolve,
		Line:     tok.Line,
		Where:    where,
		Message:  message,
	})
}
