package schema

import (
	"encoding/json"

	"github.com/aretw0/stylepanel/pkg/domain"
)

// Field describes one editable property of a schema group.
type Field struct {
	// Name is the property key, e.g. "fill-color".
	Name string
	// Group is the nested layer key holding the property ("paint", "layout"),
	// or empty for a top-level key such as "minzoom".
	Group string
	// Label is an optional display name.
	Label string
	// Type parses and checks values. Nil means any value.
	Type Type
}

// Title returns the label, falling back to the field name.
func (f Field) Title() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// ValueType returns the field type, defaulting to Any.
func (f Field) ValueType() Type {
	if f.Type == nil {
		return Any()
	}
	return f.Type
}

// Event builds the edit event that sets this field to value.
func (f Field) Event(value any) domain.EditEvent {
	return domain.EditEvent{Group: f.Group, Field: f.Name, Value: value}
}

// Value reads the current value of the field from layer.
func (f Field) Value(layer domain.Layer) (any, bool) {
	if f.Group == "" {
		v, ok := layer[f.Name]
		return v, ok
	}
	v, ok := layer.Group(f.Group)[f.Name]
	return v, ok
}

type fieldJSON struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type"`
}

// MarshalJSON serializes the field with its type name.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Name:  f.Name,
		Group: f.Group,
		Label: f.Label,
		Type:  f.ValueType().Name(),
	})
}

// Group is a titled, kinded section of fields defined for a layer type.
// Title is unique within one layer type.
type Group struct {
	Title  string           `json:"title"`
	Kind   domain.GroupKind `json:"kind"`
	Fields []Field          `json:"fields,omitempty"`
}

// Field returns the field with the given name.
func (g Group) Field(name string) (Field, bool) {
	for _, f := range g.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Titles returns the group titles in order.
func Titles(groups []Group) []string {
	titles := make([]string, len(groups))
	for i, g := range groups {
		titles[i] = g.Title
	}
	return titles
}
