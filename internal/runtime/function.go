package runtime

import (
	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/token"
)

// Function is a user-defined function or method: an AST body paired
// with the environment active at its definition site (its closure),
// following original_source/src/loxfunction.cpp. IsInitializer marks a
// method named "init": such a function always returns the bound `this`
// instead of whatever its body returns (spec.md §4.4).
type Function struct {
	Name          string
	Params        []token.Token
	Body          []ast.Statement
	Closure       *Environment
	IsInitializer bool
}

func (*Function) Type() string { return "Callable" }

func (f *Function) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}

func (f *Function) Arity() int { return len(f.Params) }

// Call creates a fresh environment whose enclosing is the closure,
// defines the parameters in order, and executes the body. A plain
// function returns whatever ExecuteFunctionBody yields (Nil on
// fall-through); an initializer always returns the instance bound in
// its closure regardless of what the body returned, even a bare
// `return;` (spec.md §4.4, tested by spec.md §8 scenario 4).
func (f *Function) Call(interp Interp, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for _, arg := range args {
		env.Define(arg)
	}

	result, err := interp.ExecuteFunctionBody(f.Body, env)
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, 0), nil
	}
	return result, nil
}

// Bind produces a bound method: the same body wrapped in one extra
// environment that defines `this` at slot 0 referencing instance,
// exactly per spec.md §4.5. Called by Instance.Get when a name resolves
// to a method, by Class.Call to run `init`, and by the evaluator for
// `super.method`.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define(instance)
	return &Function{
		Name:          f.Name,
		Params:        f.Params,
		Body:          f.Body,
		Closure:       env,
		IsInitializer: f.IsInitializer,
	}
}

// NativeFunction wraps foreign Go code as a Callable. The language
// exposes exactly one (clock()) per spec.md §4.4, plus the supplemental
// Json.get/Json.set natives SPEC_FULL.md §3 adds.
type NativeFunction struct {
	Name string
	Arty int
	Fn   func(args []Value) (Value, error)
}

func (*NativeFunction) Type() string         { return "Callable" }
func (n *NativeFunction) String() string     { return "<native fn " + n.Name + ">" }
func (n *NativeFunction) Arity() int         { return n.Arty }
func (n *NativeFunction) Call(_ Interp, args []Value) (Value, error) {
	return n.Fn(args)
}
