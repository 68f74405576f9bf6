// Package runtime implements the pieces of the interpreter that spec.md
// draws as explicit, reusable components independent of tree-walking
// itself: the Value model (C1), the Environment (C2), the Callable
// protocol (C5), and the Class/Instance model (C6). internal/interp
// builds the evaluator (C7) on top of these types; it is the only
// consumer that needs to know how an AST node turns into a Value.
package runtime

import (
	"fmt"
	"strconv"
)

// Value is the tagged union spec.md §3 describes: every Lox runtime
// value — Number, String, Boolean, Nil, Callable reference, Class
// reference, Instance reference — implements this interface. There is
// no separate "Nil" struct instance per occurrence; Nil{} is a
// zero-size value compared by type, not identity.
type Value interface {
	// Type names the variant ("Number", "String", "Callable", ...).
	Type() string

	// String renders the value the way Lox's `print` and string
	// concatenation do (spec.md §4.1 "Stringification").
	String() string
}

// NumberFormat controls how Number renders its String() form. It exists
// because spec.md §9 leaves the exact formatter as an implementer's
// choice but asks that it be configurable for test parity with the
// original's std::to_string(double), which always renders six decimal
// places. internal/config flips this at startup; tests that need the
// original's literal "N.000000" fixtures set it to FormatFixed6.
var NumberFormat = FormatFixed6

const (
	// FormatFixed6 renders numbers the way the C++ original's
	// std::to_string(double) does: always six decimal places.
	FormatFixed6 = "fixed6"
	// FormatShortest renders numbers with the shortest decimal
	// representation that round-trips, Go's usual float formatting.
	FormatShortest = "shortest"
)

// Number is a double-precision floating point value.
type Number float64

func (Number) Type() string { return "Number" }

func (n Number) String() string {
	if NumberFormat == FormatShortest {
		return strconv.FormatFloat(float64(n), 'g', -1, 64)
	}
	return fmt.Sprintf("%f", float64(n))
}

// String is an immutable Lox string value.
type String string

func (String) Type() string     { return "String" }
func (s String) String() string { return string(s) }

// Boolean is a Lox true/false value.
type Boolean bool

func (Boolean) Type() string { return "Boolean" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Nil is Lox's single null value.
type Nil struct{}

func (Nil) Type() string   { return "Nil" }
func (Nil) String() string { return "nil" }

// IsTruthy implements spec.md §4.1: Nil and Boolean false are falsey;
// everything else — including 0, "", and any callable/instance — is
// truthy.
func IsTruthy(v Value) bool {
	switch vv := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(vv)
	default:
		return true
	}
}

// Equal implements spec.md §4.1 equality: same-variant structural
// equality (with float64's usual NaN != NaN), Nil equals only Nil,
// references compare by identity, and every cross-variant pair is
// false — there is no Number/Boolean coercion in `==` (spec.md §9 Open
// Questions), nor in arithmetic.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	default:
		// Callable references (*Function, including bound methods, and
		// *NativeFunction): identity comparison via the underlying pointer.
		ac, aIsCallable := a.(Callable)
		bc, bIsCallable := b.(Callable)
		if aIsCallable && bIsCallable {
			return ac == bc
		}
		return false
	}
}
