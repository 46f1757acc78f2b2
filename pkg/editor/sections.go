package editor

import (
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/schema"
)

// Section is the editing surface of one group. The concrete type depends on
// the group kind; a group of unknown kind has no section.
type Section interface {
	Kind() domain.GroupKind
}

// GroupView is one rendered group of the panel.
type GroupView struct {
	Title   string           `json:"title"`
	Kind    domain.GroupKind `json:"kind"`
	Active  bool             `json:"active"`
	Section Section          `json:"section,omitempty"`
}

// SettingsSection edits the layer id and type.
type SettingsSection struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	LayerTypes []string `json:"layer_types"`

	c *Coordinator
}

func (*SettingsSection) Kind() domain.GroupKind { return domain.KindSettings }

// ChangeID requests a rename. The layer itself is not edited.
func (s *SettingsSection) ChangeID(id string) {
	s.c.RenameLayer(id)
}

// ChangeType sets the layer type.
func (s *SettingsSection) ChangeType(layerType string) {
	s.c.ChangeProperty("", domain.KeyType, layerType)
}

// SourceSection edits the source binding and the filter.
type SourceSection struct {
	Source      string         `json:"source,omitempty"`
	SourceLayer string         `json:"source_layer,omitempty"`
	Sources     map[string]any `json:"sources,omitempty"`

	// The filter editor is offered only when HasFilter is set.
	HasFilter bool `json:"has_filter"`
	Filter    any  `json:"filter,omitempty"`
	// FilterProperties are the attribute names known for the bound source layer.
	FilterProperties []string `json:"filter_properties,omitempty"`

	InspectionMode  string   `json:"inspection_mode"`
	InspectionModes []string `json:"inspection_modes"`

	c *Coordinator
}

func (*SourceSection) Kind() domain.GroupKind { return domain.KindSource }

// ChangeFilter replaces the whole filter expression.
func (s *SourceSection) ChangeFilter(filter any) {
	s.c.ChangeFilter(filter)
}

// ChangeSource binds the layer to another source.
func (s *SourceSection) ChangeSource(source string) {
	s.c.ChangeProperty("", domain.KeySource, source)
}

// ChangeSourceLayer binds the layer to another source layer.
func (s *SourceSection) ChangeSourceLayer(sourceLayer string) {
	s.c.ChangeProperty("", domain.KeySourceLayer, sourceLayer)
}

// PropertiesSection edits the fields listed by the schema group.
type PropertiesSection struct {
	Fields []schema.Field `json:"fields"`
	// Values holds the current value of each field present on the layer, by name.
	Values map[string]any `json:"values"`

	c *Coordinator
}

func (*PropertiesSection) Kind() domain.GroupKind { return domain.KindProperties }

// Change sets field to value inside the field's group.
func (s *PropertiesSection) Change(field schema.Field, value any) {
	s.c.Apply(field.Event(value))
}

// Set looks up a field by name and sets it. It reports false when the
// section has no such field.
func (s *PropertiesSection) Set(name string, value any) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			s.Change(f, value)
			return true
		}
	}
	return false
}

// Field returns the named field of the section.
func (s *PropertiesSection) Field(name string) (schema.Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return schema.Field{}, false
}

// RawSection shows the whole layer as structured data.
type RawSection struct {
	Layer domain.Layer `json:"layer"`

	c *Coordinator
}

func (*RawSection) Kind() domain.GroupKind { return domain.KindRaw }

// Change forwards layer as a full replacement, bypassing the merge engine.
func (s *RawSection) Change(layer domain.Layer) {
	s.c.ReplaceLayer(layer)
}
