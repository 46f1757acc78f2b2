package runner

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/editor"
)

// Frame is one rendering of a panel, shared by the text and JSON handlers
// and by the HTTP and MCP adapters.
type Frame struct {
	LayerID   string             `json:"layer_id"`
	LayerType string             `json:"layer_type"`
	HasSchema bool               `json:"has_schema"`
	Groups    []editor.GroupView `json:"groups"`
	Layer     domain.Layer       `json:"layer"`
}

// NewFrame captures the current view of p.
func NewFrame(p *stylepanel.Panel) *Frame {
	layer := p.Layer()
	return &Frame{
		LayerID:   layer.ID(),
		LayerType: layer.Type(),
		HasSchema: p.Coordinator().HasSchema(),
		Groups:    p.Render(),
		Layer:     layer,
	}
}

// Markdown renders the frame as a markdown document. Collapsed groups show
// their title only.
func (f *Frame) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", f.LayerID)
	if !f.HasSchema {
		fmt.Fprintf(&b, "_No editor layout for layer type %q._\n", f.LayerType)
		return b.String()
	}

	for _, g := range f.Groups {
		marker := "▾"
		if !g.Active {
			marker = "▸"
		}
		fmt.Fprintf(&b, "## %s %s\n\n", marker, g.Title)
		if !g.Active {
			continue
		}
		switch s := g.Section.(type) {
		case *editor.SettingsSection:
			fmt.Fprintf(&b, "- **id**: `%s`\n", s.ID)
			fmt.Fprintf(&b, "- **type**: `%s` (%s)\n", s.Type, strings.Join(s.LayerTypes, ", "))
		case *editor.SourceSection:
			fmt.Fprintf(&b, "- **source**: `%s`\n", s.Source)
			fmt.Fprintf(&b, "- **source-layer**: `%s`\n", s.SourceLayer)
			if s.HasFilter {
				fmt.Fprintf(&b, "- **filter**: `%s`\n", compact(s.Filter))
				if len(s.FilterProperties) > 0 {
					fmt.Fprintf(&b, "- **properties**: %s\n", strings.Join(s.FilterProperties, ", "))
				}
			}
			fmt.Fprintf(&b, "- **inspection**: %s\n", s.InspectionMode)
		case *editor.PropertiesSection:
			b.WriteString("| property | type | value |\n|---|---|---|\n")
			for _, field := range s.Fields {
				value := ""
				if v, ok := s.Values[field.Name]; ok {
					value = "`" + compact(v) + "`"
				}
				fmt.Fprintf(&b, "| %s | %s | %s |\n", fieldPath(field.Group, field.Name), field.ValueType().Name(), value)
			}
		case *editor.RawSection:
			data, _ := json.MarshalIndent(s.Layer, "", "  ")
			fmt.Fprintf(&b, "```json\n%s\n```\n", data)
		default:
			b.WriteString("_No editor for this group._\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Titles lists the group titles in order.
func (f *Frame) Titles() []string {
	out := make([]string, 0, len(f.Groups))
	for _, g := range f.Groups {
		out = append(out, g.Title)
	}
	return out
}

func fieldPath(group, name string) string {
	if group == "" {
		return name
	}
	return group + "." + name
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// sortedKeys is used for stable help output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
