package style

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Document is an immutable style document. Edits return a new Document.
type Document struct {
	raw []byte
}

// Parse reads a style document. Comments and trailing commas are accepted.
func Parse(data []byte) (*Document, error) {
	// Standardize rewrites its input.
	std, err := hujson.Standardize(append([]byte(nil), data...))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidStyle, err)
	}
	if !gjson.ValidBytes(std) {
		return nil, fmt.Errorf("%w: malformed JSON", domain.ErrInvalidStyle)
	}
	root := gjson.ParseBytes(std)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: root is not an object", domain.ErrInvalidStyle)
	}
	if l := root.Get("layers"); l.Exists() && !l.IsArray() {
		return nil, fmt.Errorf("%w: layers is not an array", domain.ErrInvalidStyle)
	}
	return &Document{raw: std}, nil
}

// ReadFile parses the style stored at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style: %w", err)
	}
	return Parse(data)
}

// Bytes returns the document JSON.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Pretty returns the document indented for humans.
func (d *Document) Pretty() []byte {
	return pretty.Pretty(d.raw)
}

// LayerIDs lists layer ids in document order.
func (d *Document) LayerIDs() []string {
	var ids []string
	gjson.GetBytes(d.raw, "layers").ForEach(func(_, layer gjson.Result) bool {
		ids = append(ids, layer.Get("id").String())
		return true
	})
	return ids
}

// index returns the array position of the layer with the given id.
func (d *Document) index(id string) (int, bool) {
	for i, lid := range d.LayerIDs() {
		if lid == id {
			return i, true
		}
	}
	return -1, false
}

func layerPath(i int) string {
	return "layers." + strconv.Itoa(i)
}

// Layer decodes the layer with the given id.
func (d *Document) Layer(id string) (domain.Layer, error) {
	i, ok := d.index(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrLayerNotFound, id)
	}
	return domain.AsLayer(gjson.GetBytes(d.raw, layerPath(i)).Value())
}

// ReplaceLayer swaps the layer with the given id for layer.
// The id stored in layer wins, so a rename through the raw editor is honored
// as long as it stays unique.
func (d *Document) ReplaceLayer(id string, layer domain.Layer) (*Document, error) {
	i, ok := d.index(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrLayerNotFound, id)
	}
	if newID := layer.ID(); newID != id {
		if _, taken := d.index(newID); taken {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateLayerID, newID)
		}
	}

	data, err := json.Marshal(layer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layer: %w", err)
	}
	raw, err := sjson.SetRawBytes(d.raw, layerPath(i), data)
	if err != nil {
		return nil, fmt.Errorf("failed to splice layer %q: %w", id, err)
	}
	return &Document{raw: raw}, nil
}

// RenameLayer changes a layer id. The new id must not be used by another layer.
func (d *Document) RenameLayer(oldID, newID string) (*Document, error) {
	i, ok := d.index(oldID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrLayerNotFound, oldID)
	}
	if oldID == newID {
		return d, nil
	}
	if newID == "" {
		return nil, fmt.Errorf("%w: empty id", domain.ErrInvalidLayer)
	}
	if _, taken := d.index(newID); taken {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateLayerID, newID)
	}

	raw, err := sjson.SetBytes(d.raw, layerPath(i)+".id", newID)
	if err != nil {
		return nil, fmt.Errorf("failed to rename layer %q: %w", oldID, err)
	}
	return &Document{raw: raw}, nil
}

// Sources returns the source definitions keyed by source id.
func (d *Document) Sources() map[string]any {
	m, _ := gjson.GetBytes(d.raw, "sources").Value().(map[string]any)
	return m
}

// VectorLayers collects the attribute names of every source layer declared
// inline by vector sources (TileJSON "vector_layers"), keyed by source-layer id.
func (d *Document) VectorLayers() map[string][]string {
	fields := make(map[string]map[string]struct{})
	gjson.GetBytes(d.raw, "sources").ForEach(func(_, src gjson.Result) bool {
		src.Get("vector_layers").ForEach(func(_, vl gjson.Result) bool {
			id := vl.Get("id").String()
			if id == "" {
				return true
			}
			if fields[id] == nil {
				fields[id] = make(map[string]struct{})
			}
			vl.Get("fields").ForEach(func(name, _ gjson.Result) bool {
				fields[id][name.String()] = struct{}{}
				return true
			})
			return true
		})
		return true
	})

	out := make(map[string][]string, len(fields))
	for id, set := range fields {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		out[id] = names
	}
	return out
}
