package runtime

import "github.com/loxlang/lox/internal/ast"

// Interp is the seam the evaluator (internal/interp) implements so that
// Callable.Call can run a function body without this package depending
// on the evaluator's tree-walking logic: runtime holds the data
// (functions, classes, instances), interp holds the switch that
// executes statements. By the time ExecuteFunctionBody returns, any
// Return signal raised inside body has already been caught and turned
// into the returned Value; a Break escaping a function body is a
// parser bug, and the implementation panics rather than letting it leak
// out of this interface.
type Interp interface {
	ExecuteFunctionBody(body []ast.Statement, env *Environment) (Value, error)
}

// Callable is the unified protocol spec.md §4.4 describes: user
// functions, bound methods, classes used as constructors, and native
// functions all implement it identically, so the evaluator's Call
// expression handling never needs to know which kind it invoked.
type Callable interface {
	Value
	Arity() int
	Call(interp Interp, args []Value) (Value, error)
}
