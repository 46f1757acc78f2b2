package domain

// EditEvent is a single field-level change request.
// An empty Group targets the top level of the layer; otherwise Group names
// the nested mapping (paint, layout) that holds Field.
type EditEvent struct {
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
	Field string `json:"field" yaml:"field"`
	Value any    `json:"value" yaml:"value"`
}

// TopLevel reports whether the event targets a top-level layer key.
func (e EditEvent) TopLevel() bool {
	return e.Group == ""
}

// Path renders the event target as "group.field" or "field".
func (e EditEvent) Path() string {
	if e.TopLevel() {
		return e.Field
	}
	return e.Group + "." + e.Field
}
