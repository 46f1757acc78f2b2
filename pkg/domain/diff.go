package domain

import (
	"reflect"
)

// LayerDiff represents the changes between two layers.
// It is designed to be serialized to JSON for partial updates on the client.
type LayerDiff struct {
	// LayerID is the id of the new layer.
	LayerID string `json:"layer_id"`

	// Changed contains top-level keys that were added or modified.
	// For deletions, the key is present with a nil value.
	// Nested groups that are mappings on both sides are reported in Groups instead.
	Changed map[string]any `json:"changed,omitempty"`

	// Groups contains per-group deltas with the same add/modify/delete encoding.
	Groups map[string]map[string]any `json:"groups,omitempty"`
}

// Diff calculates the difference between oldLayer and newLayer.
// If oldLayer is nil, every key of newLayer is reported as changed.
// It returns nil when nothing changed.
func Diff(oldLayer, newLayer Layer) *LayerDiff {
	if newLayer == nil {
		return nil
	}

	diff := &LayerDiff{LayerID: newLayer.ID()}
	changed := make(map[string]any)
	groups := make(map[string]map[string]any)

	for k, newVal := range newLayer {
		oldVal, exists := oldLayer[k]
		if !exists {
			changed[k] = newVal
			continue
		}
		oldMap, oldIsMap := oldVal.(map[string]any)
		newMap, newIsMap := newVal.(map[string]any)
		if oldIsMap && newIsMap {
			if delta := diffMap(oldMap, newMap); delta != nil {
				groups[k] = delta
			}
			continue
		}
		if !reflect.DeepEqual(oldVal, newVal) {
			changed[k] = newVal
		}
	}

	for k := range oldLayer {
		if _, exists := newLayer[k]; !exists {
			changed[k] = nil
		}
	}

	if len(changed) > 0 {
		diff.Changed = changed
	}
	if len(groups) > 0 {
		diff.Groups = groups
	}
	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffMap(old, new map[string]any) map[string]any {
	delta := make(map[string]any)
	for k, newVal := range new {
		oldVal, exists := old[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}
	for k := range old {
		if _, exists := new[k]; !exists {
			delta[k] = nil
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *LayerDiff) IsEmpty() bool {
	return d == nil || (len(d.Changed) == 0 && len(d.Groups) == 0)
}

// Paths lists every changed key as "key" or "group.key".
func (d *LayerDiff) Paths() []string {
	if d == nil {
		return nil
	}
	paths := make([]string, 0, len(d.Changed)+len(d.Groups))
	for k := range d.Changed {
		paths = append(paths, k)
	}
	for g, delta := range d.Groups {
		for k := range delta {
			paths = append(paths, g+"."+k)
		}
	}
	return paths
}
