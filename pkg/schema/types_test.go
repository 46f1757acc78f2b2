package schema

import (
	"fmt"
	"testing"
)

func TestStringType(t *testing.T) {
	typ := String()

	if typ.Name() != "string" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "string")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"hello", false},
		{"", false},
		{[]any{"get", "name"}, false}, // expression
		{42, true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestNumberType(t *testing.T) {
	typ := Number()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{3.14, false},
		{float32(3.14), false},
		{42, false},
		{int64(42), false},
		{[]any{"interpolate", []any{"linear"}, []any{"zoom"}, 5, 1, 10, 2}, false},
		{"42", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}

	v, err := typ.Parse(" 0.5 ")
	if err != nil || v != 0.5 {
		t.Errorf("Parse(0.5) = %v, %v", v, err)
	}
	if _, err := typ.Parse("half"); err == nil {
		t.Error("Parse(half) should fail")
	}
}

func TestColorType(t *testing.T) {
	typ := Color()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"#fff", false},
		{"#ff0000", false},
		{"#ff000080", false},
		{"rgba(0, 0, 0, 0.5)", false},
		{"hsl(120, 50%, 50%)", false},
		{"red", false},
		{"#ff00", false},
		{"#gg0000", true},
		{"", true},
		{12, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestEnumType(t *testing.T) {
	typ := Enum("butt", "round", "square")

	if typ.Name() != "enum(butt|round|square)" {
		t.Errorf("Name() = %q", typ.Name())
	}
	if err := typ.Validate("round"); err != nil {
		t.Errorf("Validate(round) = %v", err)
	}
	if err := typ.Validate("pointy"); err == nil {
		t.Error("Validate(pointy) should fail")
	}
	if _, err := typ.Parse("square"); err != nil {
		t.Errorf("Parse(square) = %v", err)
	}
}

func TestArrayType(t *testing.T) {
	typ := Array(Number())

	if typ.Name() != "[number]" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[number]")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{[]any{1.0, 2.0}, false},
		{[]float64{1, 2}, false},
		{[]any{}, false},
		{[]any{1.0, "two"}, true},
		{"1,2", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}

	got, err := typ.Parse("2, 4")
	if err != nil {
		t.Fatalf("Parse(2, 4) error = %v", err)
	}
	if fmt.Sprint(got) != "[2 4]" {
		t.Errorf("Parse(2, 4) = %v", got)
	}

	got, err = typ.Parse("[1, 2, 3]")
	if err != nil {
		t.Fatalf("Parse([1, 2, 3]) error = %v", err)
	}
	if fmt.Sprint(got) != "[1 2 3]" {
		t.Errorf("Parse([1, 2, 3]) = %v", got)
	}
}

func TestAnyType_ParseDecodesJSON(t *testing.T) {
	v, err := Any().Parse(`["get", "name"]`)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.([]any); !ok {
		t.Errorf("Parse expression = %T, want []any", v)
	}

	v, _ = Any().Parse("plain text")
	if v != "plain text" {
		t.Errorf("Parse(plain text) = %v", v)
	}
}

func TestCustomType(t *testing.T) {
	unit := Custom("unit", func(v any) error {
		f, ok := v.(float64)
		if !ok || f < 0 || f > 1 {
			return fmt.Errorf("must be within [0, 1]")
		}
		return nil
	})

	if unit.Name() != "unit" {
		t.Errorf("Name() = %q", unit.Name())
	}
	if _, err := unit.Parse("0.3"); err != nil {
		t.Errorf("Parse(0.3) = %v", err)
	}
	if _, err := unit.Parse("3"); err == nil {
		t.Error("Parse(3) should fail")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantErr  bool
	}{
		{"string", "string", false},
		{"number", "number", false},
		{"float", "number", false},
		{"bool", "bool", false},
		{"color", "color", false},
		{"", "any", false},
		{"[number]", "[number]", false},
		{"[[string]]", "[[string]]", false},
		{"enum(a|b)", "enum(a|b)", false},
		{"enum()", "", true},
		{"unknown", "", true},
		{"[unknown]", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && typ.Name() != tt.wantName {
				t.Errorf("ParseType(%q).Name() = %q, want %q", tt.input, typ.Name(), tt.wantName)
			}
		})
	}
}
