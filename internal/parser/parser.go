// Package parser implements the recursive-descent parser described in
// spec.md §6: source tokens in, an AST out, syntax errors reported to a
// Diagnostics sink rather than raised. The grammar and the
// match/check/advance/consume mechanics follow
// original_source/src/parser.cpp; the statement forms the original
// parser doesn't have yet (if/while/for/break, functions, classes,
// calls, property access, this/super) are added directly from
// spec.md's grammar in the same recursive-descent style.
package parser

import (
	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/errors"
	"github.com/loxlang/lox/internal/token"
)

// parseError unwinds a single parsing attempt back to the nearest
// synchronization point (declaration() or, for the REPL's expression
// retry, ParseExpression()). It is caught with recover rather than
// threaded as a return value because the grammar's error recovery is
// inherently non-local: a syntax error discovered four levels deep in
// expression parsing must abort the entire statement, not just the
// innermost call, mirroring the C++ original's ParseError exception.
type parseError struct{}

// Parser turns a token stream into statements, matching spec.md's
// grammar exactly (comma/ternary/logical precedence, the 255 param/arg
// limits, for-desugaring, and break validated against a loop-depth
// counter).
type Parser struct {
	tokens    []token.Token
	current   int
	diags     *errors.Diagnostics
	loopDepth int
}

// New constructs a Parser over a complete token stream (as produced by
// lexer.Lexer.Scan), reporting syntax errors into diags.
func New(tokens []token.Token, diags *errors.Diagnostics) *Parser {
	return &Parser{tokens: tokens, diags: diags}
}

// Mark returns a checkpoint that Reset can rewind the cursor to. Used by
// the REPL to try parsing a line as an expression first and, if that
// fails, rewind and parse it as a statement sequence instead — the same
// checkpoint/rewind shape as the teacher's internal/parser.TokenCursor
// Mark/ResetTo, adapted to an index into an already-buffered token
// slice rather than a lazily-filled one.
type Mark int

// Mark captures the current cursor position.
func (p *Parser) Mark() Mark { return Mark(p.current) }

// Reset rewinds the cursor to a previously captured Mark.
func (p *Parser) Reset(m Mark) { p.current = int(m) }

// Parse consumes the entire token stream and returns the resulting
// statements (spec.md's `program → declaration* EOF`).
func (p *Parser) Parse() []ast.Statement {
	var statements []ast.Statement
	for !p.isAtEnd() {
		if stmt, ok := p.declaration(); ok {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// ParseExpression attempts to parse a single expression consuming the
// entire remaining stream up to EOF, for the REPL's "try as expression
// first" behavior (spec.md §6). ok is false if any syntax error was
// encountered or trailing tokens remain; callers should Reset to a Mark
// taken before calling this and fall back to Parse.
func (p *Parser) ParseExpression() (expr ast.Expression, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseError := r.(parseError); isParseError {
				expr, ok = nil, false
				return
			}
			panic(r)
		}
	}()

	before := len(p.diags.All())
	e := p.expression()
	if !p.isAtEnd() || len(p.diags.All()) > before {
		return nil, false
	}
	return e, true
}

func (p *Parser) declaration() (stmt ast.Statement, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseError := r.(parseError); isParseError {
				p.synchronize()
				stmt, ok = nil, false
				return
			}
			panic(r)
		}
	}()

	if p.match(token.CLASS) {
		return p.classDeclaration(), true
	}
	if p.checkFunDecl() {
		p.advance() // consume "fun"
		return p.function("function"), true
	}
	if p.match(token.VAR) {
		return p.varDeclaration(), true
	}
	return p.statement(), true
}

// checkFunDecl reports whether the parser is at a `fun IDENT` sequence
// (a function declaration) as opposed to `fun (` (an anonymous function
// literal used as an expression) — spec.md's grammar distinguishes them
// by what follows the `fun` keyword.
func (p *Parser) checkFunDecl() bool {
	return p.check(token.FUN) && p.checkNext(token.IDENTIFIER)
}

func (p *Parser) classDeclaration() ast.Statement {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.VariableRead
	if p.match(token.LESS) {
		p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.VariableRead{Name: p.previous()}
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	var methods []*ast.FunctionDecl
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")

	return &ast.ClassDecl{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.FunctionDecl {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	params, body := p.functionTail(kind)
	return &ast.FunctionDecl{Name: name, Params: params, Body: body}
}

// functionTail parses the "(" params? ")" block portion shared by named
// function declarations, methods, and anonymous function literals.
func (p *Parser) functionTail(kind string) ([]token.Token, []ast.Statement) {
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	// A function body starts outside any loop, even when the function
	// itself is declared inside one.
	enclosingLoopDepth := p.loopDepth
	p.loopDepth = 0
	body := p.block()
	p.loopDepth = enclosingLoopDepth
	return params, body
}

func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var initializer ast.Expression
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration")
	return &ast.VarDecl{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.LEFT_BRACE):
		lbrace := p.previous()
		return &ast.Block{LBrace: lbrace, Statements: p.block()}
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Statement {
	keyword := p.previous()
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.PrintStmt{Keyword: keyword, Expression: expr}
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) breakStatement() ast.Statement {
	keyword := p.previous()
	if p.loopDepth == 0 {
		p.errorAt(keyword, "Can't use 'break' outside of a loop.")
	}
	p.consume(token.SEMICOLON, "Expect ';' after 'break'.")
	return &ast.Break{Keyword: keyword}
}

func (p *Parser) ifStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	then := p.statement()
	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &ast.If{Keyword: keyword, Condition: condition, Then: then, Else: elseBranch}
}

func (p *Parser) whileStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	p.loopDepth++
	body := p.statement()
	p.loopDepth--

	return &ast.While{Keyword: keyword, Condition: condition, Body: body}
}

// forStatement desugars `for (init; cond; incr) body` into the
// equivalent `while` form, per spec.md §6's "for is desugared to while".
func (p *Parser) forStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer ast.Statement
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	p.loopDepth++
	body := p.statement()
	p.loopDepth--

	if increment != nil {
		body = &ast.Block{
			LBrace:     keyword,
			Statements: []ast.Statement{body, &ast.ExpressionStmt{Expression: increment}},
		}
	}

	if condition == nil {
		condition = &ast.Literal{Token: keyword, Value: true}
	}
	body = &ast.While{Keyword: keyword, Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{LBrace: keyword, Statements: []ast.Statement{initializer, body}}
	}

	return body
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.ExpressionStmt{Expression: expr}
}

func (p *Parser) block() []ast.Statement {
	var statements []ast.Statement
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if stmt, ok := p.declaration(); ok {
			statements = append(statements, stmt)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block")
	return statements
}

// expression is spec.md's `expression → comma` entry point.
func (p *Parser) expression() ast.Expression {
	return p.comma()
}

// comma implements `comma → assignment ( "," assignment )*`. Call
// arguments parse individual elements with assignment() directly
// (bypassing comma), which is how the grammar disables the comma
// operator inside argument lists (spec.md §9).
func (p *Parser) comma() ast.Expression {
	left := p.assignment()
	for p.match(token.COMMA) {
		op := p.previous()
		right := p.assignment()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) assignment() ast.Expression {
	left := p.logicOr()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := left.(type) {
		case *ast.VariableRead:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.PropertyGet:
			return &ast.PropertySet{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
		}
	}

	return left
}

func (p *Parser) logicOr() ast.Expression {
	left := p.logicAnd()
	for p.match(token.OR) {
		op := p.previous()
		right := p.logicAnd()
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) logicAnd() ast.Expression {
	left := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) equality() ast.Expression {
	left := p.ternary()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		right := p.ternary()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

// ternary implements `ternary → comparison ( "?" expression ":" comparison )*`.
func (p *Parser) ternary() ast.Expression {
	left := p.comparison()
	for p.match(token.QUESTION) {
		question := p.previous()
		then := p.expression()
		p.consume(token.COLON, "Expect ':' in ternary expression.")
		right := p.comparison()
		left = &ast.Ternary{Cond: left, Question: question, Then: then, Else: right}
	}
	return left
}

func (p *Parser) comparison() ast.Expression {
	left := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) term() ast.Expression {
	left := p.factor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) factor() ast.Expression {
	left := p.unary()
	for p.match(token.STAR, token.SLASH) {
		op := p.previous()
		right := p.unary()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

// call implements `call → primary ( "(" args? ")" | "." IDENT )*`.
func (p *Parser) call() ast.Expression {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.PropertyGet{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	var args []ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.errorAtCurrent("Can't have more than 255 arguments.")
			}
			args = append(args, p.assignment())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Token: p.previous(), Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Token: p.previous(), Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Token: p.previous(), Value: nil}
	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Token: p.previous(), Value: p.previous().Literal}
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, "Expect '.' after 'super'.")
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.IDENTIFIER):
		return &ast.VariableRead{Name: p.previous()}
	case p.match(token.LEFT_PAREN):
		lparen := p.previous()
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{LParen: lparen, Expression: expr}
	case p.match(token.FUN):
		keyword := p.previous()
		params, body := p.functionTail("function")
		return &ast.FunctionLiteral{Keyword: keyword, Params: params, Body: body}
	}

	panic(p.errorAtCurrent("Expect expression."))
}

// --- cursor mechanics, following original_source/src/parser.cpp ---

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

// checkNext reports whether the token after the current one has kind.
func (p *Parser) checkNext(kind token.Kind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.errorAtCurrent(message))
}

func (p *Parser) errorAtCurrent(message string) parseError {
	return p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok token.Token, message string) parseError {
	where := errors.AtLexeme(tok.Lexeme)
	if tok.Kind == token.EOF {
		where = errors.AtEnd()
	}
	p.diags.Add(errors.Diagnostic{
		Severity: errors.Parse,
		Line:     tok.Line,
		Where:    where,
		Message:  message,
	})
	return parseError{}
}

// synchronize discards tokens until it reaches a likely statement
// boundary, so the parser can keep looking for further errors after one
// is found (spec.md §7: parse errors are collected, not fatal).
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}

		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}
