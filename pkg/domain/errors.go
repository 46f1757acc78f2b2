package domain

import "errors"

// ErrSchemaNotFound is returned when a layer type has no entry in the schema.
var ErrSchemaNotFound = errors.New("schema not found for layer type")

// ErrPanelNotFound is returned when a panel ID cannot be found in the store.
var ErrPanelNotFound = errors.New("panel not found")

// ErrLayerNotFound is returned when a style document has no layer with the requested ID.
var ErrLayerNotFound = errors.New("layer not found")

// ErrDuplicateLayerID is returned when a rename would collide with a sibling layer.
var ErrDuplicateLayerID = errors.New("duplicate layer id")

// ErrInvalidLayer is returned when a value cannot be interpreted as a layer object.
var ErrInvalidLayer = errors.New("invalid layer")

// ErrInvalidStyle is returned when a style document cannot be read.
var ErrInvalidStyle = errors.New("invalid style document")
