package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLayerChanged EventType = "layer_changed"
	EventLayerRenamed EventType = "layer_renamed"
	EventGroupToggled EventType = "group_toggled"
	EventSchemaMiss   EventType = "schema_miss"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// LayerEvent reports an edit that produced a new layer.
type LayerEvent struct {
	EventBase
	LayerID   string    `json:"layer_id"`
	LayerType string    `json:"layer_type"`
	Kind      GroupKind `json:"kind"`
	// Path is "group.field", "field", or empty for a full replacement.
	Path string `json:"path,omitempty"`
}

// RenameEvent reports a layer id change request.
type RenameEvent struct {
	EventBase
	OldID string `json:"old_id"`
	NewID string `json:"new_id"`
}

// ToggleEvent reports a group being expanded or collapsed.
type ToggleEvent struct {
	EventBase
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// SchemaMissEvent reports a layer type unknown to the schema.
type SchemaMissEvent struct {
	EventBase
	LayerID   string `json:"layer_id"`
	LayerType string `json:"layer_type"`
}

// LifecycleHooks defines callbacks for panel observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnLayerChanged func(*LayerEvent)
	OnLayerRenamed func(*RenameEvent)
	OnGroupToggled func(*ToggleEvent)
	OnSchemaMiss   func(*SchemaMissEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLayerChanged: chain(h.OnLayerChanged, other.OnLayerChanged),
		OnLayerRenamed: chain(h.OnLayerRenamed, other.OnLayerRenamed),
		OnGroupToggled: chain(h.OnGroupToggled, other.OnGroupToggled),
		OnSchemaMiss:   chain(h.OnSchemaMiss, other.OnSchemaMiss),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
