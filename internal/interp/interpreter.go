// Package interp implements the tree-walking evaluator (spec.md C7): the
// only component that turns an AST plus the resolver's binding side-table
// into actual program behavior. Everything it needs — the Value model,
// Environment, Callable protocol, Class/Instance model — lives in
// internal/runtime; this package owns just the big expression/statement
// type switches and the non-local control-flow signals that drive them,
// following the shape of the teacher's internal/interp/interpreter.go
// (field-based exitSignal/continueSignal/breakSignal, checked after each
// statement) adapted to Lox's Return/Break instead of DWScript's
// exit/continue/break triad.
package interp

import (
	"fmt"
	"io"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/errors"
	"github.com/loxlang/lox/internal/resolver"
	"github.com/loxlang/lox/internal/runtime"
	"github.com/loxlang/lox/internal/token"
)

// RuntimeError is the evaluator's single error shape (spec.md §7's ARITY,
// NOT_CALLABLE, TYPE, ONLY_INSTANCES, UNDEFINED_PROPERTY, SUPER_NOT_CLASS
// kinds are all just messages here — the kind lives in the text, not a
// separate field, matching how the original reports them). It is always
// raised against the token closest to the offending operation, so the
// diagnostic always carries a source line.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// Diagnostic renders a RuntimeError in the wire format spec.md §6
// reserves for the Runtime severity.
func (e *RuntimeError) Diagnostic() errors.Diagnostic {
	return errors.Diagnostic{Severity: errors.Runtime, Line: e.Token.Line, Message: e.Message}
}

// Interpreter walks a resolved program. It holds a pointer to the
// current environment, a reference to globals, the resolver's binding
// side-table, and an output sink for `print` — exactly the state
// spec.md §4.6 lists for the evaluator.
type Interpreter struct {
	Globals  *runtime.Environment
	env      *runtime.Environment
	bindings *resolver.Bindings
	Out      io.Writer

	// returning/returnValue and breaking are the non-local control-flow
	// signals spec.md §4.6 describes as "exceptional... propagates
	// through the evaluator stack until caught by the matching
	// construct". They are plain fields rather than panics: every
	// statement-executing loop checks them immediately after running a
	// statement and stops looping without unwinding the Go stack,
	// mirroring the teacher's boolean-signal style rather than the
	// original C++'s thrown-object unwinding.
	returning   bool
	returnValue runtime.Value
	breaking    bool
}

// New constructs an Interpreter. globals must already hold any native
// functions, defined in the same order DeclareGlobal assigned their
// slots (see internal/natives).
func New(bindings *resolver.Bindings, globals *runtime.Environment, out io.Writer) *Interpreter {
	return &Interpreter{Globals: globals, env: globals, bindings: bindings, Out: out}
}

// Run executes a resolved program's top-level statements in order,
// stopping at the first runtime error (spec.md §7: "Runtime errors...
// abort the enclosing interpret call").
func (i *Interpreter) Run(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// EvalExpression evaluates a single expression under the interpreter's
// current environment. Used by the REPL's "try as expression first"
// path (spec.md §6), where a line that parses as a bare expression is
// evaluated and its value printed rather than executed as a statement.
func (i *Interpreter) EvalExpression(expr ast.Expression) (runtime.Value, error) {
	return i.eval(expr)
}

// ExecuteFunctionBody implements runtime.Interp: it runs body under env,
// catches a Return signal into a plain (Value, error) pair, and reports
// a Break escaping the function body as a bug (the parser only accepts
// break inside a loop of the same function body).
func (i *Interpreter) ExecuteFunctionBody(body []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range body {
		if err := i.execute(stmt); err != nil {
			return nil, err
		}
		if i.returning {
			i.returning = false
			value := i.returnValue
			i.returnValue = nil
			return value, nil
		}
		if i.breaking {
			panic("interp: break escaped a function body")
		}
	}
	return runtime.Nil{}, nil
}

// executeBlock runs statements under a fresh environment enclosing the
// current one, restoring the prior environment on every exit path
// (spec.md §4.6 Block, §5 "guaranteed to restore on every exit path").
func (i *Interpreter) executeBlock(statements []ast.Statement) error {
	previous := i.env
	i.env = runtime.NewEnvironment(previous)
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		if err := i.execute(stmt); err != nil {
			return err
		}
		if i.returning || i.breaking {
			return nil
		}
	}
	return nil
}

func (i *Interpreter) execute(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := i.eval(s.Expression)
		return err

	case *ast.PrintStmt:
		v, err := i.eval(s.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.Out, v.String())
		return nil

	case *ast.VarDecl:
		value := runtime.Value(runtime.Nil{})
		if s.Initializer != nil {
			v, err := i.eval(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.env.Define(value)
		return nil

	case *ast.Block:
		return i.executeBlock(s.Statements)

	case *ast.If:
		cond, err := i.eval(s.Condition)
		if err != nil {
			return err
		}
		if runtime.IsTruthy(cond) {
			return i.execute(s.Then)
		}
		if s.Else != nil {
			return i.execute(s.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := i.eval(s.Condition)
			if err != nil {
				return err
			}
			if !runtime.IsTruthy(cond) {
				return nil
			}
			if err := i.execute(s.Body); err != nil {
				return err
			}
			if i.breaking {
				i.breaking = false
				return nil
			}
			if i.returning {
				return nil
			}
		}

	case *ast.Break:
		i.breaking = true
		return nil

	case *ast.FunctionDecl:
		fn := &runtime.Function{Name: s.Name.Lexeme, Params: s.Params, Body: s.Body, Closure: i.env}
		i.env.Define(fn)
		return nil

	case *ast.Return:
		value := runtime.Value(runtime.Nil{})
		if s.Value != nil {
			v, err := i.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		i.returning = true
		i.returnValue = value
		return nil

	case *ast.ClassDecl:
		return i.executeClassDecl(s)

	default:
		panic("interp: unhandled statement type")
	}
}

// executeClassDecl implements spec.md §4.6's six ClassDecl steps.
func (i *Interpreter) executeClassDecl(s *ast.ClassDecl) error {
	var superclass *runtime.Class
	if s.Superclass != nil {
		v, err := i.eval(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*runtime.Class)
		if !ok {
			return i.runtimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	declEnv := i.env
	slot := declEnv.Define(runtime.Nil{})

	if s.Superclass != nil {
		superEnv := runtime.NewEnvironment(i.env)
		superEnv.Define(superclass)
		i.env = superEnv
	}

	methods := make(map[string]*runtime.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &runtime.Function{
			Name:          m.Name.Lexeme,
			Params:        m.Params,
			Body:          m.Body,
			Closure:       i.env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	if s.Superclass != nil {
		i.env = i.env.Enclosing()
	}

	class := &runtime.Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	declEnv.Assign(slot, class)
	return nil
}

func (i *Interpreter) eval(expr ast.Expression) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil

	case *ast.Grouping:
		return i.eval(e.Expression)

	case *ast.Unary:
		right, err := i.eval(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Operator.Kind {
		case token.BANG:
			return runtime.Boolean(!runtime.IsTruthy(right)), nil
		case token.MINUS:
			n, err := i.checkNumberOperand(e.Operator, right)
			if err != nil {
				return nil, err
			}
			return -n, nil
		default:
			panic("interp: unhandled unary operator")
		}

	case *ast.Binary:
		return i.evalBinary(e)

	case *ast.Ternary:
		cond, err := i.eval(e.Cond)
		if err != nil {
			return nil, err
		}
		if runtime.IsTruthy(cond) {
			return i.eval(e.Then)
		}
		return i.eval(e.Else)

	case *ast.Logical:
		left, err := i.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Kind == token.OR {
			if runtime.IsTruthy(left) {
				return left, nil
			}
		} else {
			if !runtime.IsTruthy(left) {
				return left, nil
			}
		}
		return i.eval(e.Right)

	case *ast.VariableRead:
		return i.lookupVariable(e, e.Name), nil

	case *ast.Assign:
		value, err := i.eval(e.Value)
		if err != nil {
			return nil, err
		}
		i.assignVariable(e, value)
		return value, nil

	case *ast.Call:
		return i.evalCall(e)

	case *ast.FunctionLiteral:
		return &runtime.Function{Params: e.Params, Body: e.Body, Closure: i.env}, nil

	case *ast.PropertyGet:
		obj, err := i.eval(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*runtime.Instance)
		if !ok {
			return nil, i.runtimeError(e.Name, "Only instances have properties.")
		}
		value, ok := instance.Get(e.Name.Lexeme)
		if !ok {
			return nil, i.runtimeError(e.Name, "Undefined property '"+e.Name.Lexeme+"'.")
		}
		return value, nil

	case *ast.PropertySet:
		obj, err := i.eval(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*runtime.Instance)
		if !ok {
			return nil, i.runtimeError(e.Name, "Only instances have fields.")
		}
		value, err := i.eval(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name.Lexeme, value)
		return value, nil

	case *ast.This:
		return i.lookupVariable(e, e.Keyword), nil

	case *ast.Super:
		return i.evalSuper(e)

	default:
		panic("interp: unhandled expression type")
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary) (runtime.Value, error) {
	left, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Kind {
	case token.COMMA:
		// Sequencing operator: both sides already evaluated for their
		// effects; yield the left operand's value (spec.md §4.6).
		return left, nil

	case token.PLUS:
		if ln, ok := left.(runtime.Number); ok {
			if rn, ok := right.(runtime.Number); ok {
				return ln + rn, nil
			}
			if rs, ok := right.(runtime.String); ok {
				return runtime.String(ln.String()) + rs, nil
			}
		}
		if ls, ok := left.(runtime.String); ok {
			if rs, ok := right.(runtime.String); ok {
				return ls + rs, nil
			}
			if rn, ok := right.(runtime.Number); ok {
				return ls + runtime.String(rn.String()), nil
			}
		}
		return nil, i.runtimeError(e.Operator, "Operands must be two numbers or two strings.")

	case token.MINUS:
		ln, rn, err := i.checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil

	case token.STAR:
		ln, rn, err := i.checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil

	case token.SLASH:
		ln, rn, err := i.checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		// Division by zero yields IEEE infinity/NaN; it is not an
		// error (spec.md §4.1).
		return ln / rn, nil

	case token.GREATER:
		ln, rn, err := i.checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(ln > rn), nil

	case token.GREATER_EQUAL:
		ln, rn, err := i.checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(ln >= rn), nil

	case token.LESS:
		ln, rn, err := i.checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(ln < rn), nil

	case token.LESS_EQUAL:
		ln, rn, err := i.checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(ln <= rn), nil

	case token.EQUAL_EQUAL:
		return runtime.Boolean(runtime.Equal(left, right)), nil

	case token.BANG_EQUAL:
		return runtime.Boolean(!runtime.Equal(left, right)), nil

	default:
		panic("interp: unhandled binary operator")
	}
}

func (i *Interpreter) evalCall(e *ast.Call) (runtime.Value, error) {
	callee, err := i.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, len(e.Args))
	for idx, argExpr := range e.Args {
		v, err := i.eval(argExpr)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	callable, ok := callee.(runtime.Callable)
	if !ok {
		return nil, i.runtimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, i.runtimeError(e.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}

	result, err := callable.Call(i, args)
	if err != nil {
		// A native function reports failure as a plain Go error, with
		// no token of its own to blame; anchor it on the call site.
		if _, ok := err.(*RuntimeError); ok {
			return nil, err
		}
		return nil, i.runtimeError(e.Paren, err.Error())
	}
	return result, nil
}

// evalSuper implements spec.md §4.5's super.method resolution: the
// superclass is bound one scope outward from `this`, exactly as the
// resolver's resolveClass pushes the super scope immediately enclosing
// the this scope.
func (i *Interpreter) evalSuper(e *ast.Super) (runtime.Value, error) {
	binding, ok := i.bindings.Lookup(e)
	if !ok {
		panic("interp: missing resolver binding for super")
	}
	superVal := i.env.GetAt(binding.Slot, binding.Depth)
	superclass, ok := superVal.(*runtime.Class)
	if !ok {
		panic("interp: super binding did not resolve to a class")
	}

	thisVal := i.env.GetAt(0, binding.Depth-1)
	instance, ok := thisVal.(*runtime.Instance)
	if !ok {
		panic("interp: this binding did not resolve to an instance")
	}

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, i.runtimeError(e.Method, "Undefined property '"+e.Method.Lexeme+"'.")
	}
	return method.Bind(instance), nil
}

func (i *Interpreter) lookupVariable(expr ast.Expression, name token.Token) runtime.Value {
	binding, ok := i.bindings.Lookup(expr)
	if !ok {
		panic("interp: missing resolver binding for " + name.Lexeme)
	}
	if binding.Depth == resolver.Global {
		return i.Globals.Get(binding.Slot)
	}
	return i.env.GetAt(binding.Slot, binding.Depth)
}

func (i *Interpreter) assignVariable(expr *ast.Assign, value runtime.Value) {
	binding, ok := i.bindings.Lookup(expr)
	if !ok {
		panic("interp: missing resolver binding for " + expr.Name.Lexeme)
	}
	if binding.Depth == resolver.Global {
		i.Globals.Assign(binding.Slot, value)
		return
	}
	i.env.AssignAt(binding.Slot, binding.Depth, value)
}

func (i *Interpreter) checkNumberOperand(operator token.Token, operand runtime.Value) (runtime.Number, error) {
	n, ok := operand.(runtime.Number)
	if !ok {
		return 0, i.runtimeError(operator, "Operand must be a number.")
	}
	return n, nil
}

func (i *Interpreter) checkNumberOperands(operator token.Token, left, right runtime.Value) (runtime.Number, runtime.Number, error) {
	ln, lok := left.(runtime.Number)
	rn, rok := right.(runtime.Number)
	if !lok || !rok {
		return 0, 0, i.runtimeError(operator, "Operands must be numbers.")
	}
	return ln, rn, nil
}

func (i *Interpreter) runtimeError(tok token.Token, message string) error {
	return &RuntimeError{Token: tok, Message: message}
}

// literalValue converts a Literal's decoded lexer payload (float64,
// string, bool, or nil) into the matching runtime.Value variant.
func literalValue(v any) runtime.Value {
	switch vv := v.(type) {
	case nil:
		return runtime.Nil{}
	case float64:
		return runtime.Number(vv)
	case string:
		return runtime.String(vv)
	case bool:
		return runtime.Boolean(vv)
	default:
		panic(fmt.Sprintf("interp: unexpected literal payload type %T", v))
	}
}
