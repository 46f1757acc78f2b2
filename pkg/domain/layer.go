package domain

import "fmt"

// Layer is a single style rule. It is treated as an immutable value:
// every edit produces a new Layer and the original is left untouched.
type Layer map[string]any

// ID returns the layer identifier, or "" if missing.
func (l Layer) ID() string {
	return l.str(KeyID)
}

// Type returns the layer type (fill, line, symbol...), or "" if missing.
func (l Layer) Type() string {
	return l.str(KeyType)
}

// Source returns the bound source ID.
func (l Layer) Source() string {
	return l.str(KeySource)
}

// SourceLayer returns the bound source layer name.
func (l Layer) SourceLayer() string {
	return l.str(KeySourceLayer)
}

// Filter returns the opaque filter expression.
func (l Layer) Filter() any {
	return l[KeyFilter]
}

// HasFilter reports whether the layer carries a non-empty filter.
func (l Layer) HasFilter() bool {
	switch f := l[KeyFilter].(type) {
	case nil:
		return false
	case []any:
		return len(f) > 0
	case string:
		return f != ""
	case bool:
		return f
	default:
		return true
	}
}

// Group returns the nested group mapping stored under name.
// It returns nil when the group is absent or is not a mapping.
// The returned map is shared with the layer and must not be modified.
func (l Layer) Group(name string) map[string]any {
	g, _ := l[name].(map[string]any)
	return g
}

// Clone returns a shallow copy. Nested values are shared by reference.
func (l Layer) Clone() Layer {
	out := make(Layer, len(l)+1)
	for k, v := range l {
		out[k] = v
	}
	return out
}

func (l Layer) str(key string) string {
	s, _ := l[key].(string)
	return s
}

// AsLayer converts a decoded JSON/YAML value into a Layer.
func AsLayer(v any) (Layer, error) {
	switch m := v.(type) {
	case Layer:
		return m, nil
	case map[string]any:
		return Layer(m), nil
	case nil:
		return nil, fmt.Errorf("%w: nil value", ErrInvalidLayer)
	default:
		return nil, fmt.Errorf("%w: expected object, got %T", ErrInvalidLayer, v)
	}
}
