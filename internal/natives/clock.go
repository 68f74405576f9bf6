// Package natives implements the built-in callables the evaluator's
// globals environment is seeded with before any user code resolves or
// runs: clock(), grounded directly in
// original_source/src/native_functions/clock.cpp, plus the supplemental
// Json.get/Json.set pair described alongside it (see json.go).
package natives

import (
	"time"

	"github.com/loxlang/lox/internal/runtime"
)

// Options configures the native surface for a single run. TestMode
// pins clock() to 0 so fixture output is deterministic (spec.md §6:
// "returns 0 in test mode").
type Options struct {
	TestMode bool
}

// Clock builds the clock() native. The original returns milliseconds
// since the system clock's epoch; Go's equivalent is time.Now's Unix
// millisecond count.
func Clock(opts Options) *runtime.NativeFunction {
	return &runtime.NativeFunction{
		Name: "clock",
		Arty: 0,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if opts.TestMode {
				return runtime.Number(0), nil
			}
			return runtime.Number(float64(time.Now().UnixMilli())), nil
		},
	}
}

// Names lists the native global identifiers in the exact order Install
// defines them. A caller resolving user code must call
// resolver.DeclareGlobal for each of these, in this order, before
// walking the program, so the slot indices Install assigns line up
// with the ones the resolver recorded.
func Names() []string {
	return []string{"clock", "Json"}
}

// Install defines every native global into env, in Names order.
func Install(env *runtime.Environment, opts Options) {
	env.Define(Clock(opts))
	env.Define(jsonObject())
}
