// Package merge builds new layers from edits without touching the original.
//
// Unrelated values are shared by reference with the input layer; only the
// edited path is copied.
package merge

import "github.com/aretw0/stylepanel/pkg/domain"

// ApplyEdit returns a new layer with field set to value.
//
// With an empty group the field is set at the top level. Otherwise the nested
// mapping layer[group] is copied (an empty one is used when absent or not a
// mapping) and field is set inside the copy.
func ApplyEdit(layer domain.Layer, group, field string, value any) domain.Layer {
	out := layer.Clone()
	if group == "" {
		out[field] = value
		return out
	}

	src := layer.Group(group)
	nested := make(map[string]any, len(src)+1)
	for k, v := range src {
		nested[k] = v
	}
	nested[field] = value
	out[group] = nested
	return out
}

// ApplyEvent applies an edit event to layer.
func ApplyEvent(layer domain.Layer, e domain.EditEvent) domain.Layer {
	return ApplyEdit(layer, e.Group, e.Field, e.Value)
}

// Replace is the full-replacement path: the given layer is forwarded as is.
// A nil layer becomes an empty one so callers always receive a mapping.
func Replace(layer domain.Layer) domain.Layer {
	if layer == nil {
		return domain.Layer{}
	}
	return layer
}
