package parser

import (
	"testing"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/errors"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/token"
)

func parse(t *testing.T, source string) ([]ast.Statement, *errors.Diagnostics) {
	t.Helper()
	l := lexer.New(source)
	tokens := l.Scan()
	diags := &errors.Diagnostics{}
	p := New(tokens, diags)
	return p.Parse(), diags
}

func TestParseVarDeclaration(t *testing.T) {
	stmts, diags := parse(t, `var x = 1 + 2;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	decl, ok := stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarDecl", stmts[0])
	}
	if decl.Name.Lexeme != "x" {
		t.Errorf("decl.Name = %q", decl.Name.Lexeme)
	}
	if got, want := decl.String(), "(var x (+ 1 2))"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseCommaOperator(t *testing.T) {
	stmts, diags := parse(t, `1, 2, 3;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	exprStmt := stmts[0].(*ast.ExpressionStmt)
	bin, ok := exprStmt.Expression.(*ast.Binary)
	if !ok {
		t.Fatalf("expression is %T, want *ast.Binary", exprStmt.Expression)
	}
	if bin.Operator.Kind != token.COMMA {
		t.Errorf("operator = %s, want COMMA", bin.Operator.Kind)
	}
}

func TestCommaDisabledInCallArguments(t *testing.T) {
	// Each argument parses with assignment(), not comma(), so `f(1, 2)`
	// has two arguments rather than one comma expression.
	stmts, diags := parse(t, `f(1, 2);`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	call := stmts[0].(*ast.ExpressionStmt).Expression.(*ast.Call)
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestParseTernary(t *testing.T) {
	stmts, diags := parse(t, `true ? 1 : 2;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	expr := stmts[0].(*ast.ExpressionStmt).Expression
	tern, ok := expr.(*ast.Ternary)
	if !ok {
		t.Fatalf("expression is %T, want *ast.Ternary", expr)
	}
	if got, want := tern.String(), "(?: true 1 2)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, diags := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	outer, ok := stmts[0].(*ast.Block)
	if !ok {
		t.Fatalf("top-level statement is %T, want *ast.Block", stmts[0])
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("outer block has %d statements, want 2 (init; while)", len(outer.Statements))
	}
	if _, ok := outer.Statements[0].(*ast.VarDecl); !ok {
		t.Errorf("first statement is %T, want *ast.VarDecl", outer.Statements[0])
	}
	whileStmt, ok := outer.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("second statement is %T, want *ast.While", outer.Statements[1])
	}
	body, ok := whileStmt.Body.(*ast.Block)
	if !ok {
		t.Fatalf("while body is %T, want *ast.Block (body + increment)", whileStmt.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("while body has %d statements, want 2 (body; increment)", len(body.Statements))
	}
}

func TestParseForWithOmittedClauses(t *testing.T) {
	stmts, diags := parse(t, `for (;;) break;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	whileStmt, ok := stmts[0].(*ast.While)
	if !ok {
		t.Fatalf("statement is %T, want *ast.While", stmts[0])
	}
	lit, ok := whileStmt.Condition.(*ast.Literal)
	if !ok || lit.Value != true {
		t.Errorf("omitted condition should desugar to literal true, got %#v", whileStmt.Condition)
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, diags := parse(t, `break;`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	_, diags := parse(t, `while (true) { break; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
}

func TestParseClassDeclaration(t *testing.T) {
	src := `class Dog < Animal {
		init(name) { this.name = name; }
		speak() { print this.name; }
	}`
	stmts, diags := parse(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	class, ok := stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ClassDecl", stmts[0])
	}
	if class.Name.Lexeme != "Dog" {
		t.Errorf("class name = %q", class.Name.Lexeme)
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "Animal" {
		t.Errorf("superclass = %#v", class.Superclass)
	}
	if len(class.Methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(class.Methods))
	}
	if class.Methods[0].Name.Lexeme != "init" {
		t.Errorf("first method = %q", class.Methods[0].Name.Lexeme)
	}
}

func TestParseFunctionDeclarationVsLiteral(t *testing.T) {
	stmts, diags := parse(t, `fun add(a, b) { return a + b; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	if _, ok := stmts[0].(*ast.FunctionDecl); !ok {
		t.Fatalf("statement is %T, want *ast.FunctionDecl", stmts[0])
	}

	stmts2, diags2 := parse(t, `var f = fun (a, b) { return a + b; };`)
	if diags2.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags2.All())
	}
	decl := stmts2[0].(*ast.VarDecl)
	if _, ok := decl.Initializer.(*ast.FunctionLiteral); !ok {
		t.Fatalf("initializer is %T, want *ast.FunctionLiteral", decl.Initializer)
	}
}

func TestParseTooManyParamsIsError(t *testing.T) {
	src := "fun f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "a" + string(rune('0'+i%10))
	}
	src += ") { return 0; }"

	_, diags := parse(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected an error for more than 255 parameters")
	}
}

func TestInvalidAssignmentTargetIsError(t *testing.T) {
	_, diags := parse(t, `1 = 2;`)
	if !diags.HasErrors() {
		t.Fatal("expected an error for an invalid assignment target")
	}
}

func TestPropertyGetAndSet(t *testing.T) {
	stmts, diags := parse(t, `a.b.c = 1;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	set, ok := stmts[0].(*ast.ExpressionStmt).Expression.(*ast.PropertySet)
	if !ok {
		t.Fatalf("expression is %T, want *ast.PropertySet", stmts[0].(*ast.ExpressionStmt).Expression)
	}
	if set.Name.Lexeme != "c" {
		t.Errorf("set.Name = %q", set.Name.Lexeme)
	}
	if _, ok := set.Object.(*ast.PropertyGet); !ok {
		t.Errorf("set.Object is %T, want *ast.PropertyGet", set.Object)
	}
}

func TestParseSuperCall(t *testing.T) {
	stmts, diags := parse(t, `super.speak();`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	call := stmts[0].(*ast.ExpressionStmt).Expression.(*ast.Call)
	super, ok := call.Callee.(*ast.Super)
	if !ok {
		t.Fatalf("callee is %T, want *ast.Super", call.Callee)
	}
	if super.Method.Lexeme != "speak" {
		t.Errorf("super.Method = %q", super.Method.Lexeme)
	}
}

func TestParseExpressionRoundTrip(t *testing.T) {
	l := lexer.New(`1 + 2 * 3`)
	tokens := l.Scan()
	diags := &errors.Diagnostics{}
	p := New(tokens, diags)
	mark := p.Mark()

	expr, ok := p.ParseExpression()
	if !ok || diags.HasErrors() {
		t.Fatalf("ParseExpression failed: ok=%v diags=%v", ok, diags.All())
	}
	if got, want := expr.String(), "(+ 1 (* 2 3))"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	p.Reset(mark)
	stmts := p.Parse()
	if len(stmts) != 1 {
		t.Fatalf("Parse after Reset produced %d statements, want 1", len(stmts))
	}
}

func TestParseExpressionRejectsTrailingTokens(t *testing.T) {
	l := lexer.New(`1 + 2; 3`)
	tokens := l.Scan()
	diags := &errors.Diagnostics{}
	p := New(tokens, diags)

	_, ok := p.ParseExpression()
	if ok {
		t.Fatal("ParseExpression should fail when trailing tokens remain after the expression")
	}
}

func TestSynchronizeRecoversAfterError(t *testing.T) {
	stmts, diags := parse(t, `var ; print 1;`)
	if !diags.HasErrors() {
		t.Fatal("expected a syntax error on the malformed var declaration")
	}
	found := false
	for _, s := range stmts {
		if p, ok := s.(*ast.PrintStmt); ok {
			found = true
			if p.Expression.(*ast.Literal).Value != float64(1) {
				t.Errorf("recovered print statement has wrong expression: %v", p.Expression)
			}
		}
	}
	if !found {
		t.Error("parser did not recover and parse the print statement after the error")
	}
}
