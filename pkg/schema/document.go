package schema

import (
	"sort"
)

// LayerSchema is the ordered list of groups for one layer type.
type LayerSchema struct {
	Groups []Group `json:"groups"`
}

// Document maps layer types to their schema. It is read-only once built
// and safe for concurrent readers.
type Document struct {
	layers map[string]LayerSchema
}

// NewDocument builds a document from a layer-type map.
func NewDocument(layers map[string]LayerSchema) *Document {
	copied := make(map[string]LayerSchema, len(layers))
	for k, v := range layers {
		copied[k] = v
	}
	return &Document{layers: copied}
}

// Groups returns the ordered groups for layerType.
// The boolean is false when the type is unknown.
func (d *Document) Groups(layerType string) ([]Group, bool) {
	if d == nil {
		return nil, false
	}
	ls, ok := d.layers[layerType]
	if !ok {
		return nil, false
	}
	out := make([]Group, len(ls.Groups))
	copy(out, ls.Groups)
	return out, true
}

// LayerTypes returns the known layer types sorted by name.
func (d *Document) LayerTypes() []string {
	if d == nil {
		return nil
	}
	types := make([]string, 0, len(d.layers))
	for t := range d.layers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// MarshalJSON exposes the layer map.
func (d *Document) MarshalJSON() ([]byte, error) {
	return marshalLayers(d.layers)
}
