package ast

import (
	"testing"

	"github.com/loxlang/lox/internal/token"
)

func num(line int, lexeme string, v float64) *Literal {
	return &Literal{Token: token.New(token.NUMBER, lexeme, line, v), Value: v}
}

func TestBinaryString(t *testing.T) {
	expr := &Binary{
		Left:     num(1, "1", 1),
		Operator: token.New(token.PLUS, "+", 1, nil),
		Right:    num(1, "2", 2),
	}
	if got, want := expr.String(), "(+ 1 2)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGroupingString(t *testing.T) {
	expr := &Grouping{
		LParen:     token.New(token.LEFT_PAREN, "(", 1, nil),
		Expression: num(1, "3", 3),
	}
	if got, want := expr.String(), "(group 3)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestUnaryString(t *testing.T) {
	expr := &Unary{
		Operator: token.New(token.MINUS, "-", 1, nil),
		Right:    num(1, "5", 5),
	}
	if got, want := expr.String(), "(- 5)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTernaryString(t *testing.T) {
	expr := &Ternary{
		Cond:     &VariableRead{Name: token.New(token.IDENTIFIER, "x", 1, nil)},
		Question: token.New(token.QUESTION, "?", 1, nil),
		Then:     num(1, "1", 1),
		Else:     num(1, "2", 2),
	}
	if got, want := expr.String(), "(?: x 1 2)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCallString(t *testing.T) {
	expr := &Call{
		Callee: &VariableRead{Name: token.New(token.IDENTIFIER, "f", 1, nil)},
		Paren:  token.New(token.RIGHT_PAREN, ")", 1, nil),
		Args:   []Expression{num(1, "1", 1), num(1, "2", 2)},
	}
	if got, want := expr.String(), "(call f 1 2)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestAssignString(t *testing.T) {
	expr := &Assign{
		Name:  token.New(token.IDENTIFIER, "x", 1, nil),
		Value: num(1, "1", 1),
	}
	if got, want := expr.String(), "(= x 1)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPropertyGetSetString(t *testing.T) {
	obj := &VariableRead{Name: token.New(token.IDENTIFIER, "o", 1, nil)}
	get := &PropertyGet{Object: obj, Name: token.New(token.IDENTIFIER, "x", 1, nil)}
	if got, want := get.String(), "(.x o)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	set := &PropertySet{Object: obj, Name: token.New(token.IDENTIFIER, "x", 1, nil), Value: num(1, "3", 3)}
	if got, want := set.String(), "(.x= o 3)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBlockAndIfString(t *testing.T) {
	printStmt := &PrintStmt{
		Keyword:    token.New(token.PRINT, "print", 1, nil),
		Expression: num(1, "1", 1),
	}
	block := &Block{LBrace: token.New(token.LEFT_BRACE, "{", 1, nil), Statements: []Statement{printStmt}}
	if got, want := block.String(), "(block (print 1))"; got != want {
		t.Errorf("Block.String() = %q, want %q", got, want)
	}

	ifStmt := &If{
		Keyword:   token.New(token.IF, "if", 1, nil),
		Condition: &VariableRead{Name: token.New(token.IDENTIFIER, "x", 1, nil)},
		Then:      printStmt,
	}
	if got, want := ifStmt.String(), "(if x (print 1))"; got != want {
		t.Errorf("If.String() = %q, want %q", got, want)
	}
}

func TestVarDeclString(t *testing.T) {
	withInit := &VarDecl{Name: token.New(token.IDENTIFIER, "x", 1, nil), Initializer: num(1, "1", 1)}
	if got, want := withInit.String(), "(var x 1)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	noInit := &VarDecl{Name: token.New(token.IDENTIFIER, "x", 1, nil)}
	if got, want := noInit.String(), "(var x)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPrint(t *testing.T) {
	expr := num(1, "42", 42)
	if got, want := Print(expr), "42"; got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}
