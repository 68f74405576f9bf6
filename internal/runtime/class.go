package runtime

// Class holds a class's method table and optional superclass
// reference (spec.md §4.5). It doubles as the "Class reference" Value
// variant and, via Callable, as the constructor invoked by `ClassName(...)`.
type Class struct {
	Name       string
	Superclass *Class // nil when the class has no superclass
	Methods    map[string]*Function
}

func (*Class) Type() string     { return "Class" }
func (c *Class) String() string { return c.Name }

// FindMethod looks up name in the class's own method table, falling
// back to the superclass chain (spec.md "LoxClass.find_method").
func (c *Class) FindMethod(name string) (*Function, bool) {
	if fn, ok := c.Methods[name]; ok {
		return fn, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of `init` when the class (or an ancestor) defines
// one, else 0 (spec.md §4.4).
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if an initializer is present,
// binds and invokes it with args (spec.md "Class (as constructor)").
func (c *Class) Call(interp Interp, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance holds a class reference and a mutable name->Value field map
// (spec.md §4.5). Fields take priority over methods on Get.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) Type() string     { return "Instance" }
func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get implements spec.md's LoxInstance.get: a field hit wins over a
// method of the same name; a method hit is wrapped into a bound method
// referencing this instance; otherwise ok is false and the caller
// raises UNDEFINED_PROPERTY.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), true
	}
	return nil, false
}

// Set unconditionally overwrites or creates the field (spec.md
// "LoxInstance.set").
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}
