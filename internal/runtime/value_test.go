package runtime

import "testing"

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Nil{}, false},
		{Boolean(false), false},
		{Boolean(true), true},
		{Number(0), true},
		{String(""), true},
	}
	for _, tt := range tests {
		if got := IsTruthy(tt.v); got != tt.want {
			t.Errorf("IsTruthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil == nil", Nil{}, Nil{}, true},
		{"nil != number", Nil{}, Number(0), false},
		{"equal numbers", Number(1), Number(1), true},
		{"unequal numbers", Number(1), Number(2), false},
		{"equal strings", String("a"), String("a"), true},
		{"unequal strings", String("a"), String("b"), false},
		{"equal booleans", Boolean(true), Boolean(true), true},
		{"number != string", Number(1), String("1"), false},
		{"number != boolean", Number(1), Boolean(true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEqualInstanceIdentity(t *testing.T) {
	class := &Class{Name: "Foo", Methods: map[string]*Function{}}
	a := &Instance{Class: class, Fields: map[string]Value{}}
	b := &Instance{Class: class, Fields: map[string]Value{}}

	if !Equal(a, a) {
		t.Error("an instance should equal itself")
	}
	if Equal(a, b) {
		t.Error("two distinct instances should not be equal")
	}
}

func TestNumberStringFixed6(t *testing.T) {
	old := NumberFormat
	defer func() { NumberFormat = old }()
	NumberFormat = FormatFixed6

	if got, want := Number(3).String(), "3.000000"; got != want {
		t.Errorf("Number(3).String() = %q, want %q", got, want)
	}
}

func TestNumberStringShortest(t *testing.T) {
	old := NumberFormat
	defer func() { NumberFormat = old }()
	NumberFormat = FormatShortest

	if got, want := Number(3).String(), "3"; got != want {
		t.Errorf("Number(3).String() = %q, want %q", got, want)
	}
	if got, want := Number(3.5).String(), "3.5"; got != want {
		t.Errorf("Number(3.5).String() = %q, want %q", got, want)
	}
}

func TestBooleanAndNilString(t *testing.T) {
	if Boolean(true).String() != "true" || Boolean(false).String() != "false" {
		t.Error("unexpected Boolean.String() output")
	}
	if (Nil{}).String() != "nil" {
		t.Error("unexpected Nil.String() output")
	}
}
