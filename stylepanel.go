package stylepanel

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/stylepanel/internal/logging"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/editor"
	"github.com/aretw0/stylepanel/pkg/ports"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/aretw0/stylepanel/pkg/visibility"
)

// Panel is the high-level entry point: it owns a style document and edits
// one of its layers through an editor.Coordinator.
//
// The coordinator reports new layer values; the Panel splices them into the
// document and hands the stored layer back. A Panel is not safe for
// concurrent use.
type Panel struct {
	doc     *style.Document
	layerID string

	schema      ports.SchemaProvider
	coordinator *editor.Coordinator
	editorOpts  []editor.Option
	hooks       domain.LifecycleHooks
	visible     visibility.State
	onChange    func(*style.Document)
	logger      *slog.Logger

	err error // set by coordinator callbacks, drained by each operation
}

// Option configures a Panel.
type Option func(*Panel)

// WithSchema sets the schema provider. Defaults to schema.Default().
func WithSchema(provider ports.SchemaProvider) Option {
	return func(p *Panel) {
		p.schema = provider
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Panel) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Panel) {
		p.logger = logger
	}
}

// WithVisibility resumes a saved visibility state.
func WithVisibility(state visibility.State) Option {
	return func(p *Panel) {
		p.visible = state
	}
}

// WithOnChange is called with every new document the panel commits.
func WithOnChange(fn func(*style.Document)) Option {
	return func(p *Panel) {
		p.onChange = fn
	}
}

// WithEditorOptions passes extra options to the coordinator.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(p *Panel) {
		p.editorOpts = append(p.editorOpts, opts...)
	}
}

// Open starts a panel on the layer with the given id.
func Open(doc *style.Document, layerID string, opts ...Option) (*Panel, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidStyle)
	}
	p := &Panel{doc: doc, layerID: layerID}
	for _, opt := range opts {
		opt(p)
	}
	if p.schema == nil {
		p.schema = schema.Default()
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.onChange == nil {
		p.onChange = func(*style.Document) {}
	}

	layer, err := doc.Layer(layerID)
	if err != nil {
		return nil, err
	}

	editorOpts := []editor.Option{
		editor.WithLogger(p.logger),
		editor.WithHooks(p.hooks),
		editor.WithSources(doc.Sources()),
		editor.WithVectorLayers(doc.VectorLayers()),
		editor.WithOnLayerChanged(p.commit),
		editor.WithOnLayerIDChange(p.rename),
	}
	if p.visible != nil {
		editorOpts = append(editorOpts, editor.WithVisibility(p.visible))
	}
	editorOpts = append(editorOpts, p.editorOpts...)

	p.coordinator = editor.New(p.schema, layer, editorOpts...)
	return p, nil
}

// commit splices a produced layer into the document and re-supplies it.
func (p *Panel) commit(layer domain.Layer) {
	doc, err := p.doc.ReplaceLayer(p.layerID, layer)
	if err != nil {
		p.err = err
		return
	}
	if id := layer.ID(); id != "" {
		p.layerID = id
	}
	p.install(doc)
}

func (p *Panel) rename(oldID, newID string) {
	doc, err := p.doc.RenameLayer(oldID, newID)
	if err != nil {
		p.err = err
		return
	}
	p.layerID = newID
	p.install(doc)
}

func (p *Panel) install(doc *style.Document) {
	layer, err := doc.Layer(p.layerID)
	if err != nil {
		p.err = err
		return
	}
	p.doc = doc
	p.coordinator.SetLayer(layer)
	p.onChange(doc)
}

func (p *Panel) takeErr() error {
	err := p.err
	p.err = nil
	return err
}

// Reload installs a document changed outside the panel, e.g. by a file watcher.
func (p *Panel) Reload(doc *style.Document) error {
	layer, err := doc.Layer(p.layerID)
	if err != nil {
		return err
	}
	p.doc = doc
	p.coordinator.SetSources(doc.Sources())
	p.coordinator.SetVectorLayers(doc.VectorLayers())
	p.coordinator.SetLayer(layer)
	return nil
}

// Document returns the current document.
func (p *Panel) Document() *style.Document { return p.doc }

// Layer returns the layer being edited.
func (p *Panel) Layer() domain.Layer { return p.coordinator.Layer() }

// LayerID returns the id of the layer being edited.
func (p *Panel) LayerID() string { return p.layerID }

// State returns the visibility state for persistence.
func (p *Panel) State() visibility.State { return p.coordinator.State() }

// Coordinator exposes the underlying coordinator.
func (p *Panel) Coordinator() *editor.Coordinator { return p.coordinator }

// Render returns the rendered groups.
func (p *Panel) Render() []editor.GroupView { return p.coordinator.Render() }

// Restore overlays a saved visibility state.
func (p *Panel) Restore(state visibility.State) { p.coordinator.Restore(state) }

// Toggle expands or collapses a group.
func (p *Panel) Toggle(title string, active bool) { p.coordinator.Toggle(title, active) }

// Apply runs one field edit.
func (p *Panel) Apply(e domain.EditEvent) error {
	p.coordinator.Apply(e)
	return p.takeErr()
}

// Set edits the property at path ("paint.fill-color" or "minzoom") with a typed value.
func (p *Panel) Set(path string, value any) error {
	group, field := SplitPath(path)
	return p.Apply(domain.EditEvent{Group: group, Field: field, Value: value})
}

// SetText parses text with the schema type of the field at path, then sets it.
// Fields unknown to the schema are decoded as JSON, falling back to a string.
func (p *Panel) SetText(path, text string) error {
	group, name := SplitPath(path)
	f, ok := p.Field(group, name)
	if !ok {
		f = schema.Field{Name: name, Group: group}
	}
	v, err := f.ValueType().Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return p.Apply(f.Event(v))
}

// Field finds a properties field of the current layer type.
func (p *Panel) Field(group, name string) (schema.Field, bool) {
	for _, g := range p.coordinator.Groups() {
		if g.Kind != domain.KindProperties {
			continue
		}
		props, ok := p.coordinator.Section(g).(*editor.PropertiesSection)
		if !ok {
			continue
		}
		if f, ok := props.Field(name); ok && f.Group == group {
			return f, true
		}
	}
	return schema.Field{}, false
}

// SetType changes the layer type.
func (p *Panel) SetType(layerType string) error {
	p.coordinator.ChangeProperty("", domain.KeyType, layerType)
	return p.takeErr()
}

// Rename changes the layer id.
func (p *Panel) Rename(newID string) error {
	if newID == "" {
		return fmt.Errorf("%w: empty id", domain.ErrInvalidLayer)
	}
	p.coordinator.RenameLayer(newID)
	return p.takeErr()
}

// SetSource binds the layer to a source.
func (p *Panel) SetSource(source string) error {
	p.coordinator.ChangeProperty("", domain.KeySource, source)
	return p.takeErr()
}

// SetSourceLayer binds the layer to a source layer.
func (p *Panel) SetSourceLayer(sourceLayer string) error {
	p.coordinator.ChangeProperty("", domain.KeySourceLayer, sourceLayer)
	return p.takeErr()
}

// SetFilter replaces the layer filter.
func (p *Panel) SetFilter(filter any) error {
	p.coordinator.ChangeFilter(filter)
	return p.takeErr()
}

// Replace swaps the whole layer.
func (p *Panel) Replace(layer domain.Layer) error {
	if layer == nil {
		return fmt.Errorf("%w: nil layer", domain.ErrInvalidLayer)
	}
	p.coordinator.ReplaceLayer(layer)
	return p.takeErr()
}

// SplitPath splits "group.field" into its parts. A path without a dot is a
// top-level field and yields an empty group.
func SplitPath(path string) (group, field string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

// IsNotFound reports whether err means a missing layer or panel.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrLayerNotFound) || errors.Is(err, domain.ErrPanelNotFound)
}
