package editor

import (
	"log/slog"

	"github.com/aretw0/stylepanel/internal/logging"
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/visibility"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Coordinator) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithOnLayerChanged sets the callback receiving every new layer.
func WithOnLayerChanged(fn func(domain.Layer)) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.onLayerChanged = fn
		}
	}
}

// WithOnLayerIDChange sets the callback receiving id rename requests.
func WithOnLayerIDChange(fn func(oldID, newID string)) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.onLayerIDChange = fn
		}
	}
}

// WithSources passes the style sources through to the source section.
func WithSources(sources map[string]any) Option {
	return func(c *Coordinator) {
		c.sources = sources
	}
}

// WithVectorLayers passes known source-layer properties to the filter editor.
func WithVectorLayers(vectorLayers map[string][]string) Option {
	return func(c *Coordinator) {
		c.vectorLayers = vectorLayers
	}
}

// WithVisibility resumes a previously saved visibility state.
func WithVisibility(state visibility.State) Option {
	return func(c *Coordinator) {
		c.visible = state.Copy()
	}
}

func defaults(c *Coordinator) {
	c.logger = logging.NewNop()
	c.onLayerChanged = func(domain.Layer) {}
	c.onLayerIDChange = func(string, string) {}
}
