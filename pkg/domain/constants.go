package domain

// Layer keys understood by the panel.
const (
	KeyID          = "id"
	KeyType        = "type"
	KeySource      = "source"
	KeySourceLayer = "source-layer"
	KeyFilter      = "filter"
)

// Nested property groups of a layer.
const (
	GroupPaint  = "paint"
	GroupLayout = "layout"
)

// LayerTypeBackground is the only layer type without a data source.
// Panels hide the source group for it.
const LayerTypeBackground = "background"

// Inspection modes offered by the source group.
const (
	InspectionHighlight = "highlight"
	InspectionNormal    = "normal"
)
