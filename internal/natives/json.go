package natives

import (
	"fmt"

	"github.com/loxlang/lox/internal/runtime"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// jsonObject builds the Json native, a supplemental global the original
// chrku/cpplox has no equivalent of. It is modeled as a bare Instance of
// a method-less Class named "Json" so that `Json.get(...)`/`Json.set(...)` resolve
// through the ordinary PropertyGet path: Instance.Get checks its field
// map before falling back to methods, and these two natives live in the
// field map directly, so no change to the evaluator's property-access
// rules is needed to expose them.
func jsonObject() *runtime.Instance {
	class := &runtime.Class{Name: "Json"}
	return &runtime.Instance{
		Class: class,
		Fields: map[string]runtime.Value{
			"get": &runtime.NativeFunction{Name: "Json.get", Arty: 2, Fn: jsonGet},
			"set": &runtime.NativeFunction{Name: "Json.set", Arty: 3, Fn: jsonSet},
		},
	}
}

// jsonGet implements Json.get(text, path): a read-only gjson query
// whose result is converted to the matching Lox Value variant.
func jsonGet(args []runtime.Value) (runtime.Value, error) {
	text, ok := args[0].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("Json.get: first argument must be a string")
	}
	path, ok := args[1].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("Json.get: second argument must be a string")
	}
	return gjsonToValue(gjson.Get(string(text), string(path))), nil
}

// jsonSet implements Json.set(text, path, value): an sjson mutation
// that returns the rewritten document as a new string, leaving text
// untouched (Lox strings are immutable).
func jsonSet(args []runtime.Value) (runtime.Value, error) {
	text, ok := args[0].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("Json.set: first argument must be a string")
	}
	path, ok := args[1].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("Json.set: second argument must be a string")
	}

	result, err := sjson.Set(string(text), string(path), valueToGo(args[2]))
	if err != nil {
		return nil, fmt.Errorf("Json.set: %w", err)
	}
	return runtime.String(result), nil
}

func gjsonToValue(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.Nil{}
	case gjson.False:
		return runtime.Boolean(false)
	case gjson.True:
		return runtime.Boolean(true)
	case gjson.Number:
		return runtime.Number(r.Num)
	case gjson.String:
		return runtime.String(r.Str)
	default:
		// JSON (nested object/array): render the raw sub-document.
		return runtime.String(r.Raw)
	}
}

func valueToGo(v runtime.Value) any {
	switch vv := v.(type) {
	case runtime.Nil:
		return nil
	case runtime.Boolean:
		return bool(vv)
	case runtime.Number:
		return float64(vv)
	case runtime.String:
		return string(vv)
	default:
		return vv.String()
	}
}
