package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a schema document.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc" // JSON with comments and trailing commas
	FormatYAML  Format = "yaml"
)

// FormatFromPath guesses the format from a file extension.
// Anything that is not YAML is read as JSONC, a superset of JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSONC
	}
}

// rawLayer, rawGroup and rawField mirror the on-disk layout document.
// Groups accept either "kind" or the historical "type" key.
type rawLayer struct {
	Groups []rawGroup `mapstructure:"groups"`
}

type rawGroup struct {
	Title  string `mapstructure:"title"`
	Kind   string `mapstructure:"kind"`
	Type   string `mapstructure:"type"`
	Path   string `mapstructure:"path"`
	Fields []any  `mapstructure:"fields"`
}

type rawField struct {
	Name  string `mapstructure:"name"`
	Group string `mapstructure:"group"`
	Label string `mapstructure:"label"`
	Type  string `mapstructure:"type"`
}

// Parse decodes a schema document.
//
// The document maps each layer type to its groups:
//
//	fill:
//	  groups:
//	    - title: Settings
//	      kind: settings
//	    - title: Paint
//	      kind: properties
//	      path: paint
//	      fields: [fill-color, {name: fill-opacity, type: number}]
//
// A group's path is the default nested key for its fields; a field may
// override it with its own group.
func Parse(data []byte, format Format) (*Document, error) {
	var generic map[string]any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, &ParseError{Source: string(format), Err: err}
		}
	case FormatJSON, FormatJSONC:
		std, err := hujson.Standardize(append([]byte(nil), data...))
		if err != nil {
			return nil, &ParseError{Source: string(format), Err: err}
		}
		if err := json.Unmarshal(std, &generic); err != nil {
			return nil, &ParseError{Source: string(format), Err: err}
		}
	default:
		return nil, &ParseError{Source: string(format), Err: fmt.Errorf("unsupported format")}
	}

	var raw map[string]rawLayer
	if err := decode(generic, &raw); err != nil {
		return nil, &ParseError{Source: string(format), Err: err}
	}

	layers := make(map[string]LayerSchema, len(raw))
	for layerType, rl := range raw {
		groups := make([]Group, 0, len(rl.Groups))
		for i, rg := range rl.Groups {
			g, err := buildGroup(rg)
			if err != nil {
				return nil, &ParseError{
					Source: string(format),
					Err:    fmt.Errorf("%s: group %d: %w", layerType, i, err),
				}
			}
			groups = append(groups, g)
		}
		layers[layerType] = LayerSchema{Groups: groups}
	}

	return NewDocument(layers), nil
}

// ParseFile reads and decodes a schema document from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	doc, err := Parse(data, FormatFromPath(path))
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Source = path
		}
		return nil, err
	}
	return doc, nil
}

func buildGroup(rg rawGroup) (Group, error) {
	kind := rg.Kind
	if kind == "" {
		kind = rg.Type
	}
	if rg.Title == "" {
		return Group{}, fmt.Errorf("missing title")
	}

	g := Group{
		Title: rg.Title,
		Kind:  domain.ParseGroupKind(kind),
	}

	for j, entry := range rg.Fields {
		var rf rawField
		switch v := entry.(type) {
		case string:
			rf.Name = v
		default:
			if err := decode(v, &rf); err != nil {
				return Group{}, fmt.Errorf("field %d: %w", j, err)
			}
		}
		if rf.Name == "" {
			return Group{}, fmt.Errorf("field %d: missing name", j)
		}
		if rf.Group == "" {
			rf.Group = rg.Path
		}
		typ, err := ParseType(rf.Type)
		if err != nil {
			return Group{}, fmt.Errorf("field %s: %w", rf.Name, err)
		}
		g.Fields = append(g.Fields, Field{
			Name:  rf.Name,
			Group: rf.Group,
			Label: rf.Label,
			Type:  typ,
		})
	}

	return g, nil
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func marshalLayers(layers map[string]LayerSchema) ([]byte, error) {
	if layers == nil {
		return []byte("null"), nil
	}
	return json.Marshal(layers)
}
