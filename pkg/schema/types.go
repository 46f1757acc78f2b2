package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Type defines the contract for field values.
// Field renderers use it to turn user text into a value and to check values;
// the panel itself applies whatever value it is given.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "color").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
	// Parse converts user text into a value of this type.
	Parse(text string) (any, error)
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if isExpression(value) {
		return nil
	}
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

func (t *StringType) Parse(text string) (any, error) {
	if v, ok := parseExpression(text); ok {
		return v, nil
	}
	return text, nil
}

// NumberType validates numeric values. JSON decoding yields float64, so any
// Go numeric kind is accepted.
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(value any) error {
	if isExpression(value) {
		return nil
	}
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
}

func (t *NumberType) Parse(text string) (any, error) {
	if v, ok := parseExpression(text); ok {
		return v, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("expected number, got %q", text)
	}
	return f, nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if isExpression(value) {
		return nil
	}
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

func (t *BoolType) Parse(text string) (any, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("expected bool, got %q", text)
	}
	return b, nil
}

var colorPattern = regexp.MustCompile(`^(#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|(rgb|rgba|hsl|hsla)\(.*\)|[a-zA-Z]+)$`)

// ColorType validates CSS color strings (#rgb, #rrggbb, rgb(), hsl(), named).
type ColorType struct{}

func (t *ColorType) Name() string { return "color" }

func (t *ColorType) Validate(value any) error {
	if isExpression(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected color string, got %T", value)
	}
	if !colorPattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("invalid color %q", s)
	}
	return nil
}

func (t *ColorType) Parse(text string) (any, error) {
	if v, ok := parseExpression(text); ok {
		return v, nil
	}
	text = strings.TrimSpace(text)
	if err := t.Validate(text); err != nil {
		return nil, err
	}
	return text, nil
}

// EnumType validates a string against a closed set of values.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string {
	return fmt.Sprintf("enum(%s)", strings.Join(t.values, "|"))
}

// Values returns the allowed values in declaration order.
func (t *EnumType) Values() []string {
	return append([]string(nil), t.values...)
}

func (t *EnumType) Validate(value any) error {
	if isExpression(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	for _, v := range t.values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of %s", s, strings.Join(t.values, ", "))
}

func (t *EnumType) Parse(text string) (any, error) {
	text = strings.TrimSpace(text)
	if err := t.Validate(text); err != nil {
		return nil, err
	}
	return text, nil
}

// ArrayType validates arrays of a specific element type.
type ArrayType struct {
	elemType Type
}

func (t *ArrayType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *ArrayType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected array, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// Parse accepts a JSON array or a comma-separated list.
func (t *ArrayType) Parse(text string) (any, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") {
		var out []any
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return nil, fmt.Errorf("invalid array: %w", err)
		}
		return out, nil
	}
	if text == "" {
		return []any{}, nil
	}
	parts := strings.Split(text, ",")
	out := make([]any, 0, len(parts))
	for i, p := range parts {
		v, err := t.elemType.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// AnyType accepts every value. Text is decoded as JSON when possible.
type AnyType struct{}

func (t *AnyType) Name() string { return "any" }

func (t *AnyType) Validate(any) error { return nil }

func (t *AnyType) Parse(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, nil
	}
	return text, nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

func (t *CustomType) Parse(text string) (any, error) {
	v, err := (&AnyType{}).Parse(text)
	if err != nil {
		return nil, err
	}
	if err := t.validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

// --- Factory Functions ---

// String creates a string type.
func String() Type { return &StringType{} }

// Number creates a numeric type.
func Number() Type { return &NumberType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// Color creates a color type.
func Color() Type { return &ColorType{} }

// Enum creates an enumeration of allowed string values.
func Enum(values ...string) Type {
	return &EnumType{values: append([]string(nil), values...)}
}

// Array creates an array type for elements of the given type.
func Array(elemType Type) Type {
	return &ArrayType{elemType: elemType}
}

// Any creates a type that accepts every value.
func Any() Type { return &AnyType{} }

// Custom creates a custom type with a user-defined validation function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType converts a type name to a Type.
// Supports "string", "number", "bool", "color", "any", "enum(a|b|c)" and
// array forms such as "[number]".
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Array(elemType), nil
	}

	if strings.HasPrefix(typeStr, "enum(") && strings.HasSuffix(typeStr, ")") {
		inner := typeStr[len("enum(") : len(typeStr)-1]
		if inner == "" {
			return nil, fmt.Errorf("enum requires at least one value")
		}
		return Enum(strings.Split(inner, "|")...), nil
	}

	switch typeStr {
	case "", "any":
		return Any(), nil
	case "string":
		return String(), nil
	case "number", "float", "int":
		return Number(), nil
	case "bool", "boolean":
		return Bool(), nil
	case "color":
		return Color(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// isExpression reports whether v is a data-driven style expression
// (array form) or a legacy function object.
func isExpression(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	}
	return false
}

func parseExpression(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, false
	}
	return v, true
}
