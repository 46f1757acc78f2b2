package editor

import (
	"log/slog"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/merge"
	"github.com/aretw0/stylepanel/pkg/ports"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/visibility"
)

// Coordinator drives one layer editor panel.
type Coordinator struct {
	provider ports.SchemaProvider

	layer     domain.Layer
	groups    []schema.Group // all schema groups of the current type
	hasSchema bool
	visible   visibility.State

	sources      map[string]any
	vectorLayers map[string][]string

	onLayerChanged  func(domain.Layer)
	onLayerIDChange func(oldID, newID string)
	hooks           domain.LifecycleHooks
	logger          *slog.Logger
}

// New creates a coordinator for layer. Visibility is seeded from the
// layer's schema groups, all expanded, unless WithVisibility resumes a state.
func New(provider ports.SchemaProvider, layer domain.Layer, opts ...Option) *Coordinator {
	c := &Coordinator{provider: provider}
	defaults(c)
	for _, opt := range opts {
		opt(c)
	}

	c.layer = layer
	c.resolve()
	if c.visible == nil {
		c.visible = visibility.Initialize(schema.Titles(c.groups))
	} else {
		c.visible = visibility.Reconcile(c.visible, schema.Titles(c.groups))
	}
	return c
}

// SetLayer installs the authoritative layer supplied by the owner.
// When the type changed, the new type's groups are resolved and merged into
// the visibility state; known titles keep their expansion.
func (c *Coordinator) SetLayer(layer domain.Layer) {
	typeChanged := layer.Type() != c.layer.Type()
	c.layer = layer
	if !typeChanged {
		return
	}
	c.resolve()
	c.visible = visibility.Reconcile(c.visible, schema.Titles(c.groups))
	c.logger.Debug("Layer type changed", "layer_id", layer.ID(), "type", layer.Type(), "groups", len(c.groups))
}

// Layer returns the layer currently shown.
func (c *Coordinator) Layer() domain.Layer {
	return c.layer
}

// SetSources replaces the source definitions shown by the source section.
func (c *Coordinator) SetSources(sources map[string]any) {
	c.sources = sources
}

// SetVectorLayers replaces the source-layer property hints.
func (c *Coordinator) SetVectorLayers(vectorLayers map[string][]string) {
	c.vectorLayers = vectorLayers
}

// Toggle expands or collapses a group. The layer is not touched.
func (c *Coordinator) Toggle(title string, active bool) {
	c.visible = visibility.Toggle(c.visible, title, active)
	c.logger.Debug("Group toggled", "title", title, "active", active)
	if c.hooks.OnGroupToggled != nil {
		c.hooks.OnGroupToggled(&domain.ToggleEvent{
			EventBase: domain.NewEventBase(domain.EventGroupToggled),
			Title:     title,
			Active:    active,
		})
	}
}

// Restore overlays a saved visibility state. Saved titles take their saved
// value; titles only known to the current schema keep theirs. No hooks fire.
func (c *Coordinator) Restore(saved visibility.State) {
	out := c.visible.Copy()
	for title, active := range saved {
		out[title] = active
	}
	c.visible = out
}

// State returns a snapshot of the visibility state for persistence.
func (c *Coordinator) State() visibility.State {
	return c.visible.Copy()
}

// HasSchema reports whether the current layer type is known to the schema.
func (c *Coordinator) HasSchema() bool {
	return c.hasSchema
}

// LayerTypes lists the layer types offered by the schema.
func (c *Coordinator) LayerTypes() []string {
	return c.provider.LayerTypes()
}

// Groups returns the groups rendered for the current layer.
// Source groups are left out for the background type; their visibility
// entries are still tracked.
func (c *Coordinator) Groups() []schema.Group {
	out := make([]schema.Group, 0, len(c.groups))
	for _, g := range c.groups {
		if c.layer.Type() == domain.LayerTypeBackground && g.Kind == domain.KindSource {
			continue
		}
		out = append(out, g)
	}
	return out
}

// ChangeProperty sets field in group (empty group: top level) and reports the new layer.
func (c *Coordinator) ChangeProperty(group, field string, value any) {
	e := domain.EditEvent{Group: group, Field: field, Value: value}
	c.emit(merge.ApplyEvent(c.layer, e), domain.KindProperties, e.Path())
}

// Apply routes an edit event through the merge engine.
func (c *Coordinator) Apply(e domain.EditEvent) {
	c.ChangeProperty(e.Group, e.Field, e.Value)
}

// ChangeFilter replaces the layer filter.
func (c *Coordinator) ChangeFilter(filter any) {
	c.emit(merge.ApplyEdit(c.layer, "", domain.KeyFilter, filter), domain.KindSource, domain.KeyFilter)
}

// ReplaceLayer forwards a complete replacement layer without merging.
func (c *Coordinator) ReplaceLayer(layer domain.Layer) {
	c.emit(merge.Replace(layer), domain.KindRaw, "")
}

// RenameLayer asks the owner to rename the layer. The layer value is not
// changed here: the owner guarantees id uniqueness and re-supplies the layer.
func (c *Coordinator) RenameLayer(newID string) {
	oldID := c.layer.ID()
	c.logger.Debug("Layer rename requested", "old_id", oldID, "new_id", newID)
	if c.hooks.OnLayerRenamed != nil {
		c.hooks.OnLayerRenamed(&domain.RenameEvent{
			EventBase: domain.NewEventBase(domain.EventLayerRenamed),
			OldID:     oldID,
			NewID:     newID,
		})
	}
	c.onLayerIDChange(oldID, newID)
}

func (c *Coordinator) emit(layer domain.Layer, kind domain.GroupKind, path string) {
	c.logger.Debug("Layer changed", "layer_id", layer.ID(), "kind", kind, "path", path)
	if c.hooks.OnLayerChanged != nil {
		c.hooks.OnLayerChanged(&domain.LayerEvent{
			EventBase: domain.NewEventBase(domain.EventLayerChanged),
			LayerID:   layer.ID(),
			LayerType: layer.Type(),
			Kind:      kind,
			Path:      path,
		})
	}
	c.onLayerChanged(layer)
}

// resolve looks up the groups of the current layer type. A miss is not an
// error: the panel renders no groups until the layer gets a known type.
func (c *Coordinator) resolve() {
	groups, ok := c.provider.Groups(c.layer.Type())
	c.groups, c.hasSchema = groups, ok
	if ok {
		return
	}
	c.logger.Warn("No schema for layer type", "layer_id", c.layer.ID(), "type", c.layer.Type())
	if c.hooks.OnSchemaMiss != nil {
		c.hooks.OnSchemaMiss(&domain.SchemaMissEvent{
			EventBase: domain.NewEventBase(domain.EventSchemaMiss),
			LayerID:   c.layer.ID(),
			LayerType: c.layer.Type(),
		})
	}
}
