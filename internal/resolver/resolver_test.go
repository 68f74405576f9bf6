package resolver

import (
	"testing"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/errors"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/parser"
)

func resolve(t *testing.T, source string) ([]ast.Statement, *Bindings, *errors.Diagnostics) {
	t.Helper()
	l := lexer.New(source)
	tokens := l.Scan()
	diags := &errors.Diagnostics{}
	p := parser.New(tokens, diags)
	statements := p.Parse()
	if diags.HasErrors() {
		t.Fatalf("parse errors: %v", diags.All())
	}
	r := New(diags)
	bindings := r.Resolve(statements)
	return statements, bindings, diags
}

func TestResolveLocalVariable(t *testing.T) {
	stmts, bindings, diags := resolve(t, `{ var x = 1; print x; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	block := stmts[0].(*ast.Block)
	printStmt := block.Statements[1].(*ast.PrintStmt)
	read := printStmt.Expression.(*ast.VariableRead)

	binding, ok := bindings.Lookup(read)
	if !ok {
		t.Fatal("no binding recorded for variable read")
	}
	if binding.Depth != 0 || binding.Slot != 0 {
		t.Errorf("binding = %+v, want {Slot:0 Depth:0}", binding)
	}
}

func TestResolveGlobalVariable(t *testing.T) {
	stmts, bindings, diags := resolve(t, `var x = 1; print x;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	printStmt := stmts[1].(*ast.PrintStmt)
	read := printStmt.Expression.(*ast.VariableRead)

	binding, ok := bindings.Lookup(read)
	if !ok {
		t.Fatal("no binding recorded")
	}
	if binding.Depth != Global {
		t.Errorf("binding.Depth = %d, want Global", binding.Depth)
	}
}

func TestSelfInitializerIsError(t *testing.T) {
	_, _, diags := resolve(t, `{ var a = a; }`)
	if !diags.HasErrors() {
		t.Fatal("expected an error reading a local in its own initializer")
	}
}

func TestDuplicateLocalIsError(t *testing.T) {
	_, _, diags := resolve(t, `{ var a = 1; var a = 2; }`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for a duplicate local declaration")
	}
}

func TestUnusedLocalIsError(t *testing.T) {
	_, _, diags := resolve(t, `{ var a = 1; }`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for an unused local variable")
	}
}

func TestShadowedOuterLocalStillReportsUnused(t *testing.T) {
	_, _, diags := resolve(t, `fun outer() { var x = 1; { var x = 2; print x; } }`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for the outer x, which is shadowed and never read")
	}
}

func TestUndefinedVariableIsError(t *testing.T) {
	_, _, diags := resolve(t, `print undefinedThing;`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for an undefined variable")
	}
}

func TestReturnAtTopLevelIsError(t *testing.T) {
	_, _, diags := resolve(t, `return 1;`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for return at top level")
	}
}

func TestReturnValueFromInitializerIsError(t *testing.T) {
	_, _, diags := resolve(t, `class Foo { init() { return 1; } }`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for returning a value from an initializer")
	}
}

func TestBareReturnFromInitializerIsFine(t *testing.T) {
	_, _, diags := resolve(t, `class Foo { init() { return; } }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
}

func TestThisOutsideClassIsError(t *testing.T) {
	_, _, diags := resolve(t, `print this;`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for 'this' outside a class")
	}
}

func TestClassCannotInheritFromItself(t *testing.T) {
	_, _, diags := resolve(t, `class Oops < Oops {}`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for a class inheriting from itself")
	}
}

func TestClassWithSuperclassResolvesSuper(t *testing.T) {
	src := `class A { speak() { print "a"; } }
class B < A { speak() { super.speak(); } }`
	stmts, bindings, diags := resolve(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	classB := stmts[1].(*ast.ClassDecl)
	method := classB.Methods[0]
	exprStmt := method.Body[0].(*ast.ExpressionStmt)
	call := exprStmt.Expression.(*ast.Call)
	super := call.Callee.(*ast.Super)

	if _, ok := bindings.Lookup(super); !ok {
		t.Fatal("no binding recorded for super")
	}
}

func TestDeclareGlobalPreRegistersNativeNames(t *testing.T) {
	diags := &errors.Diagnostics{}
	r := New(diags)
	slot := r.DeclareGlobal("clock")
	if slot != 0 {
		t.Errorf("first DeclareGlobal slot = %d, want 0", slot)
	}
	second := r.DeclareGlobal("Json")
	if second != 1 {
		t.Errorf("second DeclareGlobal slot = %d, want 1", second)
	}

	l := lexer.New(`clock();`)
	tokens := l.Scan()
	p := parser.New(tokens, diags)
	stmts := p.Parse()
	bindings := r.Resolve(stmts)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	call := stmts[0].(*ast.ExpressionStmt).Expression.(*ast.Call)
	read := call.Callee.(*ast.VariableRead)
	binding, ok := bindings.Lookup(read)
	if !ok {
		t.Fatal("no binding for clock")
	}
	if binding.Depth != Global || binding.Slot != 0 {
		t.Errorf("binding = %+v, want {Slot:0 Depth:Global}", binding)
	}
}

func TestNestedScopesResolveCorrectDepth(t *testing.T) {
	src := `{ var a = 1; { var b = 2; print a; print b; } }`
	stmts, bindings, diags := resolve(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	outer := stmts[0].(*ast.Block)
	inner := outer.Statements[1].(*ast.Block)
	printStmt := inner.Statements[1].(*ast.PrintStmt)
	read := printStmt.Expression.(*ast.VariableRead)

	binding, ok := bindings.Lookup(read)
	if !ok {
		t.Fatal("no binding recorded")
	}
	if binding.Depth != 1 {
		t.Errorf("binding.Depth = %d, want 1", binding.Depth)
	}
}
